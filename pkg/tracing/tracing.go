// Package tracing records every model invocation and tool dispatch as an
// OpenTelemetry span.
//
// Spans are batched in-process and pushed to the collector on Flush, which the
// agent calls after each model call and each tool dispatch.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/ilkoid/rakuten-agent"

// Имена атрибутов спанов.
const (
	AttrTags     = "tags"
	AttrKind     = "agent.kind"
	AttrToolName = "agent.tool.name"
	AttrToolID   = "agent.tool.call_id"
	AttrModel    = "llm.model"
	AttrCalls    = "llm.tool_calls"
)

// Tracer — процессный трейсер с тегами запуска.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	tags     []string
}

// New создает трейсер из конфигурации.
//
// Без jaeger_endpoint спаны собираются, но никуда не экспортируются.
func New(cfg config.TracingConfig) (*Tracer, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	}

	if cfg.JaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	utils.Info("Tracing initialized",
		"service", cfg.ServiceName,
		"tags", cfg.Tags,
		"exporter", cfg.JaegerEndpoint)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
		tags:     cfg.Tags,
	}, nil
}

// NewWithExporter создает трейсер поверх произвольного экспортера.
func NewWithExporter(exp sdktrace.SpanExporter, tags ...string) *Tracer {
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
		tags:     tags,
	}
}

// Noop возвращает трейсер, который ничего не записывает.
func Noop() *Tracer {
	return &Tracer{
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
}

// Start открывает спан с тегами запуска.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if len(t.tags) > 0 {
		attrs = append(attrs, attribute.StringSlice(AttrTags, t.tags))
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End закрывает спан, отмечая ошибку, если она есть.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Flush выталкивает накопленные спаны в коллектор.
//
// Ошибка только логируется: недоступный коллектор не прерывает запуск.
func (t *Tracer) Flush(ctx context.Context) {
	if t.provider == nil {
		return
	}
	if err := t.provider.ForceFlush(ctx); err != nil {
		utils.Warn("Trace flush failed", "error", err)
	}
}

// Shutdown сбрасывает остаток спанов и останавливает провайдер.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return t.provider.Shutdown(ctx)
}
