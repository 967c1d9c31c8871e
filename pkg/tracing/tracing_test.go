package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_SpansVisibleAfterFlush(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tr := NewWithExporter(exp, "function-calling")
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	_, span := tr.Start(context.Background(), "llm.generate", attribute.String(AttrModel, "gpt-4o-mini"))
	End(span, nil)

	tr.Flush(context.Background())

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "llm.generate", spans[0].Name)

	attrs := map[attribute.Key]attribute.Value{}
	for _, a := range spans[0].Attributes {
		attrs[a.Key] = a.Value
	}
	assert.Equal(t, []string{"function-calling"}, attrs[AttrTags].AsStringSlice())
	assert.Equal(t, "gpt-4o-mini", attrs[AttrModel].AsString())
}

func TestEnd_RecordsError(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tr := NewWithExporter(exp)

	_, span := tr.Start(context.Background(), "tool.dispatch")
	End(span, errors.New("boom"))
	tr.Flush(context.Background())

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
}

func TestNew_DisabledIsNoop(t *testing.T) {
	tr, err := New(config.TracingConfig{Enabled: false})
	require.NoError(t, err)

	_, span := tr.Start(context.Background(), "x")
	End(span, nil)
	tr.Flush(context.Background())
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutExporter(t *testing.T) {
	tr, err := New(config.TracingConfig{Enabled: true, ServiceName: "test", Tags: []string{"a"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	ctx, span := tr.Start(context.Background(), "x")
	assert.True(t, span.SpanContext().IsValid())
	assert.NotNil(t, ctx)
	End(span, nil)
	tr.Flush(context.Background())
}
