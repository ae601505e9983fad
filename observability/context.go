package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation is a traced lifecycle operation: one span plus its start time.
type Operation struct {
	Name      string
	Component string
	StartTime time.Time

	span trace.Span
}

type operationContextKey struct{}

// StartOperation starts a span named name on tracer and stores the operation
// in the returned context. component may be empty for manager-wide operations.
func StartOperation(ctx context.Context, tracer trace.Tracer, name, component string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	if component != "" {
		attrs = append(attrs, attribute.String(AttrComponent, component))
	}
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	op := &Operation{
		Name:      name,
		Component: component,
		StartTime: time.Now(),
		span:      span,
	}
	return context.WithValue(ctx, operationContextKey{}, op), op
}

// OperationFromContext retrieves the innermost Operation from context, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationContextKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// Span returns the operation's span.
func (o *Operation) Span() trace.Span {
	return o.span
}

// End ends the span, marking it failed when err is non-nil, and returns the
// elapsed time.
func (o *Operation) End(err error) time.Duration {
	duration := time.Since(o.StartTime)

	status := StatusOK
	if err != nil {
		status = StatusError
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	} else {
		o.span.SetStatus(codes.Ok, "")
	}

	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()
	return duration
}
