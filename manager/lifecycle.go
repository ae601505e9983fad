package manager

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/graph"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/observability"
)

// Init registers the default logger if no component named "logger" exists,
// orders every component so that dependencies come first, and calls each
// init hook in that order.
//
// An unresolved dependency or a cycle fails Init before any hook runs. The
// first failing hook stops the pass: that component and every dependent that
// has not run are marked Failed, components already Ready stay Ready, and the
// manager becomes Failed. Init is only accepted once per manager lifetime.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUninitialized {
		state := m.state
		m.mu.Unlock()
		return errors.InvalidState("init", state.String())
	}
	m.state = StateInitializing

	if err := m.ensureDefaultLogger(); err != nil {
		m.state = StateFailed
		m.mu.Unlock()
		m.log.Error("default logger rejected", logger.ErrorFields("init", err))
		return err
	}

	g := m.buildGraph()
	order, err := g.Order()
	if err != nil {
		m.state = StateFailed
		m.mu.Unlock()
		appErr := dependencyError(err)
		m.metrics.RecordError(ctx, string(appErr.Code), "")
		m.log.Error("dependency graph rejected", logger.ErrorFields("order", appErr))
		return appErr
	}
	m.graph = g
	m.order = order
	records := make([]*record, len(order))
	for i, name := range order {
		records[i] = m.records[name]
	}
	m.mu.Unlock()

	m.log.Info("initializing components", logger.Fields(logger.FieldOrder, order, logger.FieldCount, len(order)))

	ctx, op := observability.StartOperation(ctx, m.tracer, observability.SpanInit, "",
		attribute.String(observability.AttrManagerID, m.id),
		attribute.StringSlice(observability.AttrOrder, order),
	)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("init interrupted before '%s': %w", rec.name, err)
			m.finishInit(StateFailed)
			op.End(err)
			m.log.Warn("init interrupted", logger.ErrorFields("init", err))
			return err
		}

		if err := m.initComponent(ctx, g, rec); err != nil {
			m.finishInit(StateFailed)
			op.End(err)
			return err
		}
	}

	m.finishInit(StateRunning)
	d := op.End(nil)
	m.log.Info("all components initialized", logger.DurationFields("init", d))
	return nil
}

// finishInit moves the manager out of Initializing unless Clear ran meanwhile.
func (m *Manager) finishInit(state LifecycleState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateInitializing {
		m.state = state
	}
}

func (m *Manager) initComponent(ctx context.Context, g *graph.Graph, rec *record) error {
	m.setState(rec, component.StateInitializing)

	ctx, op := observability.StartOperation(ctx, m.tracer, observability.SpanInitComponent, rec.name,
		attribute.String(observability.AttrComponentType, rec.typeName),
	)

	status := observability.StatusSkipped
	var err error
	if hook, ok := rec.instance.(component.Initializer); ok {
		status = observability.StatusOK
		err = runHook(ctx, "init", hook.Init)
	}
	d := op.End(err)

	if err != nil {
		m.metrics.RecordInit(ctx, rec.name, observability.StatusError, d)
		m.metrics.RecordError(ctx, errorCode(err), rec.name)
		failed := m.failComponent(g, rec)
		m.log.Error("component init failed", logger.Fields(
			logger.FieldName, rec.name,
			logger.FieldError, err.Error(),
			"dependents_failed", failed,
		))
		return fmt.Errorf("component '%s' init failed: %w", rec.name, err)
	}

	m.metrics.RecordInit(ctx, rec.name, status, d)
	m.setState(rec, component.StateReady)
	m.log.Debug("component ready", logger.Fields(logger.FieldName, rec.name, logger.FieldDuration, d.Milliseconds()))
	return nil
}

// failComponent marks rec and its not yet initialized dependents Failed and
// returns the names of the dependents.
func (m *Manager) failComponent(g *graph.Graph, rec *record) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.state = component.StateFailed
	var failed []string
	for _, name := range g.Dependents(rec.name) {
		if dep, ok := m.records[name]; ok && dep.state == component.StateRegistered {
			dep.state = component.StateFailed
			failed = append(failed, name)
		}
	}
	return failed
}

// Shutdown calls the shutdown hook of every Ready component in reverse
// initialization order. Every component is attempted; each becomes Stopped
// whether or not its hook fails, and all hook errors are returned joined.
// Shutdown before Init computed an order does nothing.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	switch {
	case m.order == nil, m.state == StateStopped:
		m.mu.Unlock()
		return nil
	case m.state == StateInitializing, m.state == StateShuttingDown:
		state := m.state
		m.mu.Unlock()
		return errors.InvalidState("shutdown", state.String())
	}
	m.state = StateShuttingDown
	records := make([]*record, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		records = append(records, m.records[m.order[i]])
	}
	m.mu.Unlock()

	m.log.Info("shutting down components", logger.Fields(logger.FieldCount, len(records)))
	ctx, op := observability.StartOperation(ctx, m.tracer, observability.SpanShutdown, "",
		attribute.String(observability.AttrManagerID, m.id),
	)

	var errs []error
	for _, rec := range records {
		if m.stateOf(rec) != component.StateReady {
			continue
		}

		status := observability.StatusSkipped
		var err error
		if hook, ok := rec.instance.(component.Shutdowner); ok {
			status = observability.StatusOK
			err = runHook(ctx, "shutdown", hook.Shutdown)
		}
		m.setState(rec, component.StateStopped)

		if err != nil {
			status = observability.StatusError
			m.metrics.RecordError(ctx, errorCode(err), rec.name)
			m.log.Error("component shutdown failed", logger.Fields(logger.FieldName, rec.name, logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("component '%s' shutdown failed: %w", rec.name, err))
		} else {
			m.log.Debug("component stopped", logger.Fields(logger.FieldName, rec.name))
		}
		m.metrics.RecordShutdown(ctx, rec.name, status)
	}

	m.mu.Lock()
	if m.state == StateShuttingDown {
		m.state = StateStopped
	}
	m.mu.Unlock()

	err := stderrors.Join(errs...)
	d := op.End(err)
	m.log.Info("shutdown complete", logger.DurationFields("shutdown", d))
	return err
}

// ensureDefaultLogger registers the default logger first in registration
// order; the caller holds m.mu.
func (m *Manager) ensureDefaultLogger() error {
	if _, ok := m.records[defaultlogger.Name]; ok {
		return nil
	}
	validate, ok := m.types[defaultlogger.TypeName]
	if !ok {
		validate = defaultlogger.Validate
		m.types[defaultlogger.TypeName] = validate
	}

	instance := defaultlogger.New(m.loggerOpts...)
	if !validate(instance) {
		return errors.InvalidType(defaultlogger.TypeName).WithDetail("component", defaultlogger.Name)
	}

	m.store(defaultlogger.Name, defaultlogger.TypeName, instance)
	m.names = append([]string{defaultlogger.Name}, m.names[:len(m.names)-1]...)
	return nil
}

// buildGraph builds the dependency graph in registration order; the caller
// holds m.mu.
func (m *Manager) buildGraph() *graph.Graph {
	g := graph.New()
	for _, name := range m.names {
		g.AddNode(name, m.records[name].dependencies()...)
	}
	return g
}

func (m *Manager) setState(rec *record, state component.State) {
	m.mu.Lock()
	rec.state = state
	m.mu.Unlock()
}

func (m *Manager) stateOf(rec *record) component.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return rec.state
}

// runHook calls a lifecycle hook, converting a panic into an error.
func runHook(ctx context.Context, name string, hook func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("panic in %s hook: %v", name, r))
		}
	}()
	return hook(ctx)
}

// errorCode labels err for metrics; errors without a code count as hook errors.
func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return string(code)
	}
	return "HOOK_ERROR"
}

func dependencyError(err error) *errors.AppError {
	var missing *graph.MissingDependencyError
	if stderrors.As(err, &missing) {
		return errors.MissingDependency(missing.Dependent, missing.Missing)
	}
	var cycle *graph.CycleError
	if stderrors.As(err, &cycle) {
		return errors.DependencyCycle(cycle.Path)
	}
	return errors.Internal(err)
}
