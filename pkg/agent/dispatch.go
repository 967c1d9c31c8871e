package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/rakuten-agent/pkg/debug"
	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/tools"
	"github.com/ilkoid/rakuten-agent/pkg/tracing"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
)

// DispatchPolicy — какие из запрошенных моделью вызовов выполнять.
type DispatchPolicy string

const (
	// DispatchFirst — только первый вызов, остальные игнорируются.
	DispatchFirst DispatchPolicy = "first"
	// DispatchAll — все вызовы по порядку, независимо друг от друга.
	DispatchAll DispatchPolicy = "all"
)

// ParseDispatchPolicy разбирает значение из config.yaml.
func ParseDispatchPolicy(s string) (DispatchPolicy, error) {
	switch DispatchPolicy(s) {
	case DispatchFirst, DispatchAll:
		return DispatchPolicy(s), nil
	case "":
		return DispatchAll, nil
	default:
		return "", fmt.Errorf("unknown dispatch policy: %q", s)
	}
}

// Select возвращает вызовы, подлежащие выполнению.
func (p DispatchPolicy) Select(calls []llm.ToolCall) []llm.ToolCall {
	if p == DispatchFirst && len(calls) > 1 {
		return calls[:1]
	}
	return calls
}

// Dispatcher выполняет вызовы инструментов одной точки вызова.
//
// Каждый вызов: спан, валидация и выполнение через Registry, запись
// в debug recorder, flush трейсов. Первая ошибка прерывает диспетчеризацию.
type Dispatcher struct {
	site     string
	registry *tools.Registry
	policy   DispatchPolicy
	tracer   *tracing.Tracer
	recorder *debug.Recorder
}

// NewDispatcher создает диспетчер для точки вызова site.
func NewDispatcher(site string, registry *tools.Registry, policy DispatchPolicy, tracer *tracing.Tracer, recorder *debug.Recorder) *Dispatcher {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &Dispatcher{
		site:     site,
		registry: registry,
		policy:   policy,
		tracer:   tracer,
		recorder: recorder,
	}
}

// Dispatch выполняет вызовы согласно политике и возвращает число выполненных.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []llm.ToolCall) (int, error) {
	selected := d.policy.Select(calls)
	if skipped := len(calls) - len(selected); skipped > 0 {
		utils.Warn("Tool calls skipped by dispatch policy",
			"site", d.site,
			"policy", string(d.policy),
			"requested", len(calls),
			"skipped", skipped)
	}

	for i, tc := range selected {
		if err := d.dispatchOne(ctx, tc); err != nil {
			return i, err
		}
	}
	return len(selected), nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, tc llm.ToolCall) error {
	startTime := time.Now()

	spanCtx, span := d.tracer.Start(ctx, "tool."+tc.Name,
		attribute.String(tracing.AttrKind, "tool"),
		attribute.String(tracing.AttrToolName, tc.Name),
		attribute.String(tracing.AttrToolID, tc.ID),
		attribute.String("agent.site", d.site))

	utils.Info("Dispatching tool call", "site", d.site, "tool", tc.Name, "call_id", tc.ID)

	result, err := d.registry.Execute(spanCtx, tc.Name, tc.Args)

	step := debug.Step{
		Site:     d.site,
		Name:     tc.Name,
		Args:     tc.Args,
		Result:   result,
		Duration: time.Since(startTime).Milliseconds(),
		Success:  err == nil,
	}
	if err != nil {
		step.Error = err.Error()
	}
	d.recorder.RecordTool(step)

	tracing.End(span, err)
	d.tracer.Flush(ctx)

	if err != nil {
		utils.Error("Tool call failed", "site", d.site, "tool", tc.Name, "error", err)
		return fmt.Errorf("tool %s: %w", tc.Name, err)
	}
	return nil
}

// generator выполняет вызов модели с трейсингом и записью в recorder.
type generator struct {
	provider llm.Provider
	model    string
	tracer   *tracing.Tracer
	recorder *debug.Recorder
	opts     []llm.GenerateOption
}

// generate вызывает модель, привязанную к defs, и сбрасывает трейсы.
func (g *generator) generate(ctx context.Context, site string, messages []llm.Message, defs []tools.ToolDefinition) (llm.Message, error) {
	startTime := time.Now()

	spanCtx, span := g.tracer.Start(ctx, "llm.generate",
		attribute.String(tracing.AttrKind, "llm"),
		attribute.String(tracing.AttrModel, g.model),
		attribute.String("agent.site", site),
		attribute.Int("llm.tools_bound", len(defs)))

	msg, err := g.provider.Generate(spanCtx, messages, defs, g.opts...)

	step := debug.Step{
		Site:     site,
		Name:     g.model,
		Duration: time.Since(startTime).Milliseconds(),
		Success:  err == nil,
		Result:   msg.Content,
	}
	if err != nil {
		step.Error = err.Error()
	}
	for _, tc := range msg.ToolCalls {
		step.ToolCalls = append(step.ToolCalls, debug.ToolCallInfo{ID: tc.ID, Name: tc.Name, Args: tc.Args})
	}
	g.recorder.RecordLLM(step)

	span.SetAttributes(attribute.Int(tracing.AttrCalls, len(msg.ToolCalls)))
	tracing.End(span, err)
	g.tracer.Flush(ctx)

	return msg, err
}
