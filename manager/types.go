package manager

import (
	"slices"

	"github.com/kbukum/componentkit/component"
)

// Validator decides whether a candidate value may be registered under a type.
type Validator func(candidate any) bool

// LifecycleState is the overall state of a Manager.
type LifecycleState string

const (
	StateUninitialized LifecycleState = "uninitialized"
	StateInitializing  LifecycleState = "initializing"
	StateRunning       LifecycleState = "running"
	StateShuttingDown  LifecycleState = "shutting-down"
	StateStopped       LifecycleState = "stopped"
	StateFailed        LifecycleState = "failed"
)

// String returns the state name.
func (s LifecycleState) String() string { return string(s) }

// ComponentInfo is a read-only snapshot of a registered component.
type ComponentInfo struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	State        component.State `json:"state"`
	Dependencies []string        `json:"dependencies"`
}

// record is the registry entry for one component.
type record struct {
	name     string
	typeName string
	instance any
	deps     []string
	state    component.State
}

// dependencies merges the record's edges with any the instance declared
// after registration. Record edges come first.
func (r *record) dependencies() []string {
	deps := append([]string(nil), r.deps...)
	if d, ok := r.instance.(component.Dependent); ok {
		for _, name := range d.Dependencies() {
			if !slices.Contains(deps, name) {
				deps = append(deps, name)
			}
		}
	}
	return deps
}

func (r *record) info() ComponentInfo {
	return ComponentInfo{
		Name:         r.name,
		Type:         r.typeName,
		State:        r.state,
		Dependencies: r.dependencies(),
	}
}
