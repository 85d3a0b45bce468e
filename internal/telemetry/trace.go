package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartCommandSpan creates a span for a CLI command execution.
//
// Usage:
//
//	ctx, span := telemetry.StartCommandSpan(ctx, "rank")
//	defer span.End()
func StartCommandSpan(ctx context.Context, cmdName string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("commands")
	ctx, span := tracer.Start(ctx, "command."+cmdName)

	span.SetAttributes(
		attribute.String("command", cmdName),
		attribute.String("component", "cli"),
	)

	return ctx, span
}

// StartStageSpan creates a span for one engine stage of a batch run.
//
// Usage:
//
//	ctx, span := telemetry.StartStageSpan(ctx, "risk", batchSize)
//	defer span.End()
func StartStageSpan(ctx context.Context, stage string, scenarios int) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("engine")
	ctx, span := tracer.Start(ctx, "engine."+stage)

	span.SetAttributes(
		attribute.String("stage", stage),
		attribute.Int("scenarios", scenarios),
		attribute.String("component", "engine"),
	)

	return ctx, span
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error in a span and sets error status.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool("error", true))
}

// RecordWarnings counts non-fatal problems on the span without failing it.
func RecordWarnings(span trace.Span, count int) {
	if count == 0 {
		return
	}
	span.SetAttributes(attribute.Int("warnings", count))
}

// RecordDuration records the duration of an operation as a span attribute.
func RecordDuration(span trace.Span, name string, duration time.Duration) {
	span.SetAttributes(attribute.Int64(name+"_ms", duration.Milliseconds()))
}
