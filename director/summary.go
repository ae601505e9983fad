package director

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/manager"
)

// ComponentStatus is one line of the startup summary.
type ComponentStatus struct {
	Name         string
	Type         string
	State        component.State
	Dependencies []string
	Details      string
}

// Summary records what a Start brought up.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	order           []string
	components      []ComponentStatus
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// Collect snapshots mgr in initialization order.
func (s *Summary) Collect(mgr *manager.Manager, startup time.Duration) {
	s.startupDuration = startup
	s.order = mgr.Order()
	s.components = s.components[:0]

	for _, name := range s.order {
		info, ok := mgr.Component(name)
		if !ok {
			continue
		}
		cs := ComponentStatus{
			Name:         info.Name,
			Type:         info.Type,
			State:        info.State,
			Dependencies: info.Dependencies,
		}
		if inst, ok, _ := mgr.Get(name); ok {
			if d, ok := inst.(component.Describable); ok {
				cs.Details = d.Describe().Details
			}
		}
		s.components = append(s.components, cs)
	}
}

// Components returns the collected components in initialization order.
func (s *Summary) Components() []ComponentStatus {
	return append([]ComponentStatus(nil), s.components...)
}

// Healthy counts components in state Ready.
func (s *Summary) Healthy() int {
	n := 0
	for _, c := range s.components {
		if c.State == component.StateReady {
			n++
		}
	}
	return n
}

// Log writes one line per component and a closing count.
func (s *Summary) Log(log *logger.Logger) {
	for i, c := range s.components {
		fields := logger.Fields(
			logger.FieldName, c.Name,
			logger.FieldType, c.Type,
			logger.FieldState, c.State.String(),
			logger.FieldOrder, i,
		)
		if len(c.Dependencies) > 0 {
			fields[logger.FieldDependency] = c.Dependencies
		}
		if c.Details != "" {
			fields["details"] = c.Details
		}
		log.Debug("component ready", fields)
	}
	log.Info("started", logger.Fields(
		logger.FieldName, s.serviceName,
		"version", s.version,
		logger.FieldCount, len(s.components),
		"healthy", s.Healthy(),
		logger.FieldDuration, s.startupDuration.Milliseconds(),
	))
}

// Render writes the summary as a tree, for terminals.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())
	if len(s.components) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n")
		return
	}
	for i, c := range s.components {
		prefix := "├──"
		if i == len(s.components)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("   %s %s %s [%s] (%s)", prefix, stateIcon(c.State), c.Name, c.Type, c.State)
		if len(c.Dependencies) > 0 {
			line += " <- " + strings.Join(c.Dependencies, ", ")
		}
		if c.Details != "" {
			line += ": " + c.Details
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d/%d components ready\n", s.Healthy(), len(s.components))
}

func stateIcon(state component.State) string {
	switch state {
	case component.StateReady:
		return "✅"
	case component.StateFailed:
		return "❌"
	case component.StateStopped:
		return "⏹️"
	default:
		return "⚠️"
	}
}
