package component

// State is the lifecycle state of a single registered component.
type State string

const (
	StateRegistered   State = "registered"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateFailed       State = "failed"
	StateStopped      State = "stopped"
)

// String returns the state name.
func (s State) String() string { return string(s) }

// Terminal reports whether the state can no longer change within one manager.
func (s State) Terminal() bool {
	return s == StateFailed || s == StateStopped
}

// Health maps a lifecycle state onto a health status.
func (s State) Health() HealthStatus {
	switch s {
	case StateReady:
		return StatusHealthy
	case StateFailed:
		return StatusUnhealthy
	default:
		return StatusDegraded
	}
}
