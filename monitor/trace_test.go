package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTraceReporter(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(prev)

	tr := NewTraceReporter()
	tr.Warn(`event "old" is deprecated`)
	tr.DispatchError("boom", &struct{}{}, "kaput", []byte("stack"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "emitter.deprecation", spans[0].Name())
	assert.Equal(t, "emitter.handler_failure", spans[1].Name())

	attrs := spans[1].Attributes()
	found := map[string]string{}
	for _, kv := range attrs {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "boom", found["emitter.event"])
	assert.Equal(t, "kaput", found["emitter.panic"])
}
