package observability

import "github.com/kbukum/componentkit/component"

// HealthStatus is the rolled-up health reported by the status server.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// severity orders statuses so a roll-up keeps the worst one seen.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUp:
		return 0
	case HealthStatusDegraded:
		return 1
	default:
		return 2
	}
}

// Health is the health of one registered component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth is the health of a whole manager: the worst of its parts.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts a roll-up at up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Version: version, Status: HealthStatusUp}
}

// AddComponent appends h and lowers the overall status if h is worse.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)
	if h.Status.severity() > sh.Status.severity() {
		sh.Status = h.Status
	}
}

// FromComponent maps a component's own health report.
func FromComponent(h component.Health) Health {
	out := Health{Name: h.Name, Message: h.Message, Status: HealthStatusDegraded}
	switch h.Status {
	case component.StatusHealthy:
		out.Status = HealthStatusUp
	case component.StatusUnhealthy:
		out.Status = HealthStatusDown
	}
	return out
}

// FromState derives health from the lifecycle state: Ready is up, Failed is
// down, anything else is degraded.
func FromState(name string, state component.State) Health {
	h := FromComponent(component.Health{Name: name, Status: state.Health()})
	h.Details = map[string]string{"state": state.String()}
	return h
}
