// Package observability provides OpenTelemetry tracing and metrics for the
// component lifecycle.
//
// The component manager opens one span per lifecycle operation and records
// counters for every hook it runs:
//
//	ctx, op := observability.StartOperation(ctx, tracer, observability.SpanInitComponent, "db")
//	err := hook(ctx)
//	metrics.RecordInit(ctx, "db", status, op.End(err))
//
// Exporters are opt-in:
//
//	shutdown, err := observability.Setup(ctx, "componentd", version.Get().Short(), cfg.Telemetry)
//	defer shutdown(ctx)
//
// Health:
//
//	health := observability.NewServiceHealth("componentd", "1.0.0")
//	health.AddComponent(observability.FromState("db", component.StateReady))
package observability
