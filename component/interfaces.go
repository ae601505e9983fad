package component

import "context"

// Initializer is implemented by components with an init hook. The manager
// calls Init once, after every dependency of the component is Ready.
type Initializer interface {
	Init(ctx context.Context) error
}

// Shutdowner is implemented by components with a teardown hook. Shutdown is
// called once, in reverse initialization order, and only for Ready components.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Configurable is implemented by components that accept runtime configuration.
// The meaning of feature and args is defined by the component; the returned
// value is passed through to the caller unchanged.
type Configurable interface {
	Config(feature string, args ...any) (any, error)
}

// Dependent is implemented by components that declare the names of the
// components they depend on.
type Dependent interface {
	Dependencies() []string
}

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthChecker is optionally implemented by components that can report more
// than their lifecycle state.
type HealthChecker interface {
	Health(ctx context.Context) Health
}

// Description holds summary information a component reports about itself.
type Description struct {
	// Name is the human-readable display name. If empty, the registered name is used.
	Name string `json:"name,omitempty"`
	// Details is a one-liner such as "listening on :8080".
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by components to self-report what
// they are and how they are configured.
type Describable interface {
	Describe() Description
}
