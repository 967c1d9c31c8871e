// Package llm provides options pattern for LLM generation parameters.
//
// Options set at initialization (from config.yaml) can be overridden per call.
package llm

// ToolChoice values understood by OpenAI-compatible providers.
const (
	ToolChoiceAuto     = "auto"
	ToolChoiceRequired = "required"
)

// GenerateOptions holds parameters for LLM generation.
type GenerateOptions struct {
	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	// Temperature controls randomness in responses (0.0 = deterministic)
	Temperature *float64

	// MaxTokens limits the response length
	MaxTokens int

	// ToolChoice is "auto" by default when tools are bound
	ToolChoice string
}

// GenerateOption is a functional option for configuring GenerateOptions.
type GenerateOption func(*GenerateOptions)

// WithModel sets the model for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature sets the temperature for generation.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = &temp
	}
}

// WithMaxTokens sets the maximum tokens for generation.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// WithToolChoice sets the tool choice mode ("auto" or "required").
func WithToolChoice(choice string) GenerateOption {
	return func(o *GenerateOptions) {
		o.ToolChoice = choice
	}
}

// Apply folds options over the given defaults.
func Apply(defaults GenerateOptions, opts ...GenerateOption) GenerateOptions {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}
