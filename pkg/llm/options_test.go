package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_OverridesDefaults(t *testing.T) {
	zero := 0.0
	defaults := GenerateOptions{Model: "gpt-4o-mini", Temperature: &zero, ToolChoice: ToolChoiceAuto}

	got := Apply(defaults, WithModel("gpt-4o"), WithTemperature(0.7), WithMaxTokens(256), WithToolChoice(ToolChoiceRequired))

	assert.Equal(t, "gpt-4o", got.Model)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.7, *got.Temperature)
	assert.Equal(t, 256, got.MaxTokens)
	assert.Equal(t, ToolChoiceRequired, got.ToolChoice)

	// Исходные дефолты не мутируются
	assert.Equal(t, 0.0, *defaults.Temperature)
	assert.Equal(t, "gpt-4o-mini", Apply(defaults).Model)
}
