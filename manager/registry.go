package manager

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/validation"
)

// RegisterType stores validate under name. Registering an existing name
// replaces its validator.
func (m *Manager) RegisterType(name string, validate Validator) error {
	v := validation.New().Required("name", name)
	if validate == nil {
		v.Add("validate", "is required")
	}
	if err := v.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.types[name]; exists {
		m.log.Debug("type replaced", logger.Fields(logger.FieldType, name))
	}
	m.types[name] = validate
	m.log.Debug("type registered", logger.Fields(logger.FieldType, name))
	return nil
}

// GetType returns the validator stored under name.
func (m *Manager) GetType(name string) (Validator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.types[name]
	return v, ok
}

// Register stores instance under name after checking it against the
// validator of typeName. Registering an existing name replaces its record and
// keeps its position in registration order. Registration is only possible
// before Init.
func (m *Manager) Register(name, typeName string, instance any) error {
	if err := validation.New().
		Required("name", name).
		Required("type", typeName).
		NotNil("instance", instance).
		Err(); err != nil {
		return err
	}

	validate, err := m.validatorFor("register", typeName)
	if err != nil {
		return err
	}

	// The validator is caller code; run it unlocked.
	if !validate(instance) {
		m.log.Warn("component rejected by type validator", logger.Fields(
			logger.FieldName, name, logger.FieldType, typeName,
		))
		return errors.InvalidType(typeName).WithDetail("component", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUninitialized {
		return errors.InvalidState("register", m.state.String())
	}
	m.store(name, typeName, instance)
	return nil
}

func (m *Manager) validatorFor(op, typeName string) (Validator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUninitialized {
		return nil, errors.InvalidState(op, m.state.String())
	}
	validate, ok := m.types[typeName]
	if !ok {
		return nil, errors.UnknownType(typeName)
	}
	return validate, nil
}

// store writes a record; the caller holds m.mu.
func (m *Manager) store(name, typeName string, instance any) {
	rec := &record{
		name:     name,
		typeName: typeName,
		instance: instance,
		state:    component.StateRegistered,
	}
	if d, ok := instance.(component.Dependent); ok {
		for _, dep := range d.Dependencies() {
			if !slices.Contains(rec.deps, dep) {
				rec.deps = append(rec.deps, dep)
			}
		}
	}

	if _, exists := m.records[name]; exists {
		m.log.Debug("component replaced", logger.Fields(logger.FieldName, name))
	} else {
		m.names = append(m.names, name)
	}
	m.records[name] = rec

	m.log.Debug("component registered", logger.Fields(
		logger.FieldName, name,
		logger.FieldType, typeName,
		logger.FieldCount, len(rec.deps),
	))
}

// AddDependency records that the component name depends on dependency.
// Adding the same edge twice is a no-op. The dependency does not need to be
// registered yet; unresolved names are reported by Init.
func (m *Manager) AddDependency(name, dependency string) error {
	if err := validation.New().
		Required("name", name).
		Required("dependency", dependency).
		Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUninitialized {
		return errors.InvalidState("add dependency", m.state.String())
	}
	rec, ok := m.records[name]
	if !ok {
		return errors.Validation("no such component: " + name)
	}
	if slices.Contains(rec.deps, dependency) {
		m.log.Debug("dependency already declared", logger.Fields(
			logger.FieldName, name, logger.FieldDependency, dependency,
		))
		return nil
	}
	rec.deps = append(rec.deps, dependency)
	return nil
}

// Get returns the instance registered under name. A missing component is
// reported through the boolean, not an error.
func (m *Manager) Get(name string) (any, bool, error) {
	if err := validation.Required("name", name); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[name]
	if !ok {
		return nil, false, nil
	}
	return rec.instance, true, nil
}

// GetAs returns the instance registered under name as T.
func GetAs[T any](m *Manager, name string) (T, bool, error) {
	var zero T
	instance, ok, err := m.Get(name)
	if err != nil || !ok {
		return zero, ok, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, false, errors.Validation(fmt.Sprintf("component '%s' is %T, not %s", name, instance, reflect.TypeFor[T]()))
	}
	return typed, true, nil
}
