package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments the component manager records on.
type Metrics struct {
	initTotal     metric.Int64Counter
	initDuration  metric.Float64Histogram
	shutdownTotal metric.Int64Counter
	configTotal   metric.Int64Counter
	errorTotal    metric.Int64Counter
}

// NewMetrics creates the lifecycle instruments on meter. Every instrument is
// attempted; the failures are returned joined.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return c
	}

	m := &Metrics{
		initTotal:     counter(MetricInitTotal, "Component init hooks run, by component and status"),
		shutdownTotal: counter(MetricShutdownTotal, "Component shutdown hooks run, by component and status"),
		configTotal:   counter(MetricConfigTotal, "Configuration calls dispatched, by component, feature and status"),
		errorTotal:    counter(MetricErrorTotal, "Lifecycle errors by code and component"),
	}

	var err error
	m.initDuration, err = meter.Float64Histogram(MetricInitDuration,
		metric.WithDescription("Duration of component init hooks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", MetricInitDuration, err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func componentStatus(component, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", status),
	)
}

// RecordInit records one init hook run.
func (m *Metrics) RecordInit(ctx context.Context, component, status string, d time.Duration) {
	m.initTotal.Add(ctx, 1, componentStatus(component, status))
	m.initDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("component", component)))
}

// RecordShutdown records one shutdown hook run.
func (m *Metrics) RecordShutdown(ctx context.Context, component, status string) {
	m.shutdownTotal.Add(ctx, 1, componentStatus(component, status))
}

// RecordConfig records one Config dispatch.
func (m *Metrics) RecordConfig(ctx context.Context, component, feature, status string) {
	m.configTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("feature", feature),
		attribute.String("status", status),
	))
}

// RecordError counts a lifecycle error by code. component is empty for
// manager-wide failures such as a dependency cycle.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
