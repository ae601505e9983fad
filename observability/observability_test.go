package observability

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/componentkit/component"
)

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := sampler(tc.rate).Description(); !strings.Contains(got, tc.want) {
				t.Errorf("sampler(%v) = %s, want %s", tc.rate, got, tc.want)
			}
		})
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordInit(ctx, "db", StatusOK, 10*time.Millisecond)
	metrics.RecordShutdown(ctx, "db", StatusOK)
	metrics.RecordConfig(ctx, "logger", "set-level", StatusOK)
	metrics.RecordError(ctx, "DEPENDENCY_ERROR", "db")
}

func TestMetrics_Collected(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	metrics.RecordInit(ctx, "db", StatusOK, time.Millisecond)
	metrics.RecordInit(ctx, "cache", StatusError, time.Millisecond)
	metrics.RecordShutdown(ctx, "db", StatusOK)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}

	if totals[MetricInitTotal] != 2 {
		t.Errorf("expected 2 init records, got %d", totals[MetricInitTotal])
	}
	if totals[MetricShutdownTotal] != 1 {
		t.Errorf("expected 1 shutdown record, got %d", totals[MetricShutdownTotal])
	}
}

func TestStartOperation_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	ctx, op := StartOperation(context.Background(), tp.Tracer("test"), SpanInitComponent, "db")
	if OperationFromContext(ctx) != op {
		t.Fatal("expected operation in context")
	}
	op.End(nil)

	_, failed := StartOperation(ctx, tp.Tracer("test"), SpanInitComponent, "cache")
	failed.End(fmt.Errorf("boom"))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != SpanInitComponent {
		t.Errorf("unexpected span name %s", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected ok status, got %v", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "boom" {
		t.Errorf("expected error status, got %v", spans[1].Status())
	}
	if spans[1].Parent().SpanID() != spans[0].SpanContext().SpanID() {
		t.Error("expected second span to be a child of the first")
	}

	var foundComponent bool
	for _, kv := range spans[1].Attributes() {
		if string(kv.Key) == AttrComponent && kv.Value.AsString() == "cache" {
			foundComponent = true
		}
	}
	if !foundComponent {
		t.Error("expected component attribute on span")
	}
}

func TestOperationFromContext_NotSet(t *testing.T) {
	if OperationFromContext(context.Background()) != nil {
		t.Error("expected nil when operation not set")
	}
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("componentd", "1.0.0")

	sh.AddComponent(Health{Name: "db", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Errorf("expected status 'up' after healthy component, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "cache", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected status 'degraded', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "queue", Status: HealthStatusDown})
	sh.AddComponent(Health{Name: "other", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down' not overridden by 'degraded', got %s", sh.Status)
	}
}

func TestFromState(t *testing.T) {
	tests := []struct {
		state component.State
		want  HealthStatus
	}{
		{component.StateReady, HealthStatusUp},
		{component.StateFailed, HealthStatusDown},
		{component.StateRegistered, HealthStatusDegraded},
		{component.StateStopped, HealthStatusDegraded},
	}
	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			h := FromState("db", tc.state)
			if h.Status != tc.want {
				t.Errorf("FromState(%s) = %s, want %s", tc.state, h.Status, tc.want)
			}
			if h.Details["state"] != tc.state.String() {
				t.Errorf("expected state detail, got %v", h.Details)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	if cfg.Enabled() {
		t.Error("expected telemetry disabled without endpoint")
	}
	cfg.ApplyDefaults()
	if cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second || cfg.Environment != "development" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "svc", "dev", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected noop shutdown, got %v", err)
	}
}
