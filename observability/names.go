package observability

// InstrumentationName is the tracer and meter name used by componentkit.
const InstrumentationName = "github.com/kbukum/componentkit"

// Lifecycle span names.
const (
	SpanInit          = "componentkit.init"
	SpanInitComponent = "componentkit.init.component"
	SpanShutdown      = "componentkit.shutdown"
	SpanConfig        = "componentkit.config"
)

// Span attribute keys.
const (
	AttrManagerID     = "componentkit.manager.id"
	AttrComponent     = "componentkit.component"
	AttrComponentType = "componentkit.component.type"
	AttrFeature       = "componentkit.feature"
	AttrOrder         = "componentkit.order"
	AttrDurationMs    = "duration_ms"
	AttrStatus        = "status"
	AttrErrorMessage  = "error.message"
)

// Metric instrument names.
const (
	MetricInitTotal     = "component.init.total"
	MetricInitDuration  = "component.init.duration"
	MetricShutdownTotal = "component.shutdown.total"
	MetricConfigTotal   = "component.config.total"
	MetricErrorTotal    = "component.error.total"
)

// Outcome of a hook or dispatch, recorded on spans and metrics.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)
