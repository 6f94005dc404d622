package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for vestro tracing.
const tracerName = "github.com/anthony-okoye/vestro"

// Tracing returns middleware that wraps step execution in an OpenTelemetry
// span. If no TracerProvider is configured globally, the default noop
// tracer is used and this middleware becomes a pass-through with zero
// overhead.
//
// Span attributes include: vestro.session.id, vestro.user.id,
// vestro.step.number, vestro.step.label. On error, the span status is set
// to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, ex *Execution, next Handler) error {
		ctx, span := tracer.Start(ctx, "vestro.step.execute",
			trace.WithAttributes(
				attribute.String("vestro.session.id", ex.SessionID.String()),
				attribute.String("vestro.user.id", ex.UserID),
				attribute.Int("vestro.step.number", ex.Step.Number),
				attribute.String("vestro.step.label", ex.Step.Label),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
