package director

import (
	"sort"
	"sync"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/factory"
	"github.com/kbukum/componentkit/manager"
)

// Built-in component types.
const (
	TypeGeneric      = "generic"
	TypeConfigurable = "configurable"
	TypeLifecycle    = "lifecycle"
)

// BuiltinTypes returns the validators registered on every director manager.
//
//	generic       any non-nil value
//	configurable  implements component.Configurable
//	lifecycle     implements component.Initializer or component.Shutdowner
func BuiltinTypes() map[string]manager.Validator {
	return map[string]manager.Validator{
		TypeGeneric: func(c any) bool { return c != nil },
		TypeConfigurable: func(c any) bool {
			_, ok := c.(component.Configurable)
			return ok
		},
		TypeLifecycle: func(c any) bool {
			_, init := c.(component.Initializer)
			_, shut := c.(component.Shutdowner)
			return init || shut
		},
	}
}

// PackageStore is the factory reference of the built-in Store component.
const PackageStore = "componentkit/store"

func init() {
	_ = factory.Register(PackageStore, NewStore)
}

// Store is a configurable key/value component. Every feature name is a key:
// Config(key, value) stores value and returns the previous one, Config(key)
// reads it. Config("keys") lists the stored keys.
type Store struct {
	component.Base

	mu     sync.RWMutex
	values map[string]any
}

// NewStore builds a Store seeded with nothing; settings arrive through Config.
func NewStore(spec factory.Spec) (*Store, error) {
	s := &Store{values: make(map[string]any)}
	for _, dep := range spec.Dependencies {
		s.AddDependency(dep)
	}
	return s, nil
}

// Config implements component.Configurable.
func (s *Store) Config(feature string, args ...any) (any, error) {
	if feature == "" {
		return nil, errors.Validation("feature is required")
	}
	if feature == "keys" && len(args) == 0 {
		return s.Keys(), nil
	}

	if len(args) == 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.values[feature], nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.values[feature]
	if len(args) == 1 {
		s.values[feature] = args[0]
	} else {
		s.values[feature] = append([]any(nil), args...)
	}
	return prev, nil
}

// Keys returns the stored keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ component.Configurable = (*Store)(nil)
