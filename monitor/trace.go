package monitor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emberlink/emitkit/emitter"
)

var (
	_ emitter.WarningReporter = (*TraceReporter)(nil)
	_ emitter.ErrorReporter   = (*TraceReporter)(nil)
)

const tracerName = "github.com/emberlink/emitkit/monitor"

// TraceReporter records deprecation warnings and handler failures as spans
// so they show up in whatever tracing backend the host process exports to.
// It reads the global tracer provider, so hosts keep control of exporters
// and sampling.
type TraceReporter struct {
	tracer trace.Tracer
}

func NewTraceReporter() *TraceReporter {
	return &TraceReporter{tracer: otel.Tracer(tracerName)}
}

// Warn implements emitter.WarningReporter.
func (t *TraceReporter) Warn(msg string) {
	_, span := t.tracer.Start(context.Background(), "emitter.deprecation")
	span.SetAttributes(attribute.String("emitter.warning", msg))
	span.End()
}

// DispatchError implements emitter.ErrorReporter.
func (t *TraceReporter) DispatchError(event string, target any, recovered any, stack []byte) {
	_, span := t.tracer.Start(context.Background(), "emitter.handler_failure")
	span.SetAttributes(
		attribute.String("emitter.event", event),
		attribute.String("emitter.target_type", fmt.Sprintf("%T", target)),
		attribute.String("emitter.panic", fmt.Sprint(recovered)),
		attribute.Int("emitter.stack_bytes", len(stack)),
	)
	span.SetStatus(codes.Error, "handler panicked")
	span.End()
}
