package manager

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/observability"
	"github.com/kbukum/componentkit/validation"
)

// Config forwards feature and args to the Config capability of the component
// registered under name and returns its result. A rejection by the component
// comes back as a configuration error wrapping the component's own error.
func (m *Manager) Config(name, feature string, args ...any) (any, error) {
	if err := validation.Required("name", name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	rec, ok := m.records[name]
	var instance any
	if ok {
		instance = rec.instance
	}
	m.mu.Unlock()

	if !ok {
		return nil, errors.Validation("no such component: " + name)
	}
	if err := validation.Required("feature", feature); err != nil {
		return nil, err
	}

	configurable, ok := instance.(component.Configurable)
	if !ok {
		return nil, errors.NotConfigurable(name)
	}

	ctx, op := observability.StartOperation(context.Background(), m.tracer, observability.SpanConfig, name,
		attribute.String(observability.AttrFeature, feature),
	)
	result, err := callConfig(configurable, feature, args)
	op.End(err)

	if err != nil {
		m.metrics.RecordConfig(ctx, name, feature, observability.StatusError)
		m.log.Warn("component rejected configuration", logger.Fields(
			logger.FieldName, name, logger.FieldFeature, feature, logger.FieldError, err.Error(),
		))
		return nil, errors.Configuration(name, fmt.Sprintf("'%s' rejected feature '%s'", name, feature)).
			WithDetail("feature", feature).
			WithCause(err)
	}

	m.metrics.RecordConfig(ctx, name, feature, observability.StatusOK)
	m.log.Debug("component configured", logger.Fields(logger.FieldName, name, logger.FieldFeature, feature))
	return result, nil
}

func callConfig(c component.Configurable, feature string, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("panic in config hook: %v", r))
		}
	}()
	return c.Config(feature, args...)
}
