package component

import (
	"slices"
	"sync"

	"github.com/kbukum/componentkit/logger"
)

// Base records the dependencies of a component. Embed it to satisfy Dependent
// and gain AddDependency.
//
//	type Store struct {
//	    component.Base
//	}
//
//	s := &Store{}
//	s.AddDependency("logger")
type Base struct {
	mu   sync.RWMutex
	deps []string
}

// AddDependency declares a dependency on the named component. Adding the same
// name twice is a no-op.
func (b *Base) AddDependency(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if slices.Contains(b.deps, name) {
		logger.Debug("Dependency already declared", map[string]interface{}{
			logger.FieldDependency: name,
		})
		return
	}
	b.deps = append(b.deps, name)
}

// Dependencies returns the declared dependencies in declaration order.
func (b *Base) Dependencies() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.deps)
}
