package manager

import (
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/graph"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/observability"
)

// Manager owns the type registry and component registry and drives the
// component lifecycle. All methods are safe for concurrent use; hooks run
// without the manager lock held, so a hook may call Get and Config.
type Manager struct {
	mu sync.Mutex

	id      string
	types   map[string]Validator
	records map[string]*record
	names   []string // registration order
	order   []string // last computed initialization order
	graph   *graph.Graph
	state   LifecycleState

	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.Metrics
	loggerOpts []defaultlogger.Option
}

// New creates an empty manager in state Uninitialized.
func New(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	id := uuid.NewString()
	base := o.log
	if base == nil {
		base = logger.GetGlobalLogger()
	}

	m := &Manager{
		id:         id,
		log:        base.WithComponent("componentmanager").WithFields(logger.Fields(logger.FieldManagerID, id)),
		tracer:     o.tracer(),
		metrics:    o.metrics(),
		loggerOpts: o.loggerOpts,
	}
	m.reset()
	return m
}

// ID returns the manager's unique identifier.
func (m *Manager) ID() string {
	return m.id
}

// State returns the overall lifecycle state.
func (m *Manager) State() LifecycleState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Clear forgets every type and component and returns the manager to
// Uninitialized. Hooks are not called.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	m.log.Debug("manager cleared")
}

func (m *Manager) reset() {
	m.types = make(map[string]Validator)
	m.records = make(map[string]*record)
	m.names = nil
	m.order = nil
	m.graph = nil
	m.state = StateUninitialized
}

// Components returns a snapshot of every component in registration order.
func (m *Manager) Components() []ComponentInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ComponentInfo, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.records[name].info())
	}
	return out
}

// Component returns a snapshot of one component.
func (m *Manager) Component(name string) (ComponentInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[name]
	if !ok {
		return ComponentInfo{}, false
	}
	return rec.info(), true
}

// Order returns the last computed initialization order, or nil before Init.
func (m *Manager) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Levels groups components by dependency depth. After Init it describes the
// graph Init used; before Init it is computed from the current registrations.
func (m *Manager) Levels() ([][]string, error) {
	m.mu.Lock()
	g := m.graph
	if g == nil {
		g = m.buildGraph()
	}
	m.mu.Unlock()

	levels, err := g.Levels()
	if err != nil {
		return nil, dependencyError(err)
	}
	return levels, nil
}

func noopMeter() metric.Meter {
	return noop.NewMeterProvider().Meter(observability.InstrumentationName)
}
