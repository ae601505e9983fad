package manager

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/observability"
)

// Option configures a Manager.
type Option func(*options)

type options struct {
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	loggerOpts     []defaultlogger.Option
}

func defaultOptions() *options {
	return &options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
}

// WithLogger sets the operational logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider sets the provider lifecycle spans are recorded on.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider lifecycle metrics are recorded on.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithDefaultLoggerOptions configures the logger component registered at Init.
func WithDefaultLoggerOptions(opts ...defaultlogger.Option) Option {
	return func(o *options) { o.loggerOpts = append(o.loggerOpts, opts...) }
}

func (o *options) tracer() trace.Tracer {
	return o.tracerProvider.Tracer(observability.InstrumentationName)
}

func (o *options) metrics() *observability.Metrics {
	m, err := observability.NewMetrics(o.meterProvider.Meter(observability.InstrumentationName))
	if err != nil {
		logger.Warn("lifecycle metrics disabled", logger.ErrorFields("create_metrics", err))
		m, _ = observability.NewMetrics(noopMeter())
	}
	return m
}
