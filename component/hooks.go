package component

import (
	"context"
	"fmt"
)

// Hooks adapts plain functions to the capability interfaces. A nil function
// behaves like an absent capability that succeeds.
type Hooks struct {
	Base

	OnInit     func(ctx context.Context) error
	OnShutdown func(ctx context.Context) error
	OnConfig   func(feature string, args ...any) (any, error)
}

// NewHooks returns an empty Hooks depending on deps.
func NewHooks(deps ...string) *Hooks {
	h := &Hooks{}
	for _, d := range deps {
		h.AddDependency(d)
	}
	return h
}

func (h *Hooks) Init(ctx context.Context) error {
	if h.OnInit == nil {
		return nil
	}
	return h.OnInit(ctx)
}

func (h *Hooks) Shutdown(ctx context.Context) error {
	if h.OnShutdown == nil {
		return nil
	}
	return h.OnShutdown(ctx)
}

func (h *Hooks) Config(feature string, args ...any) (any, error) {
	if h.OnConfig == nil {
		return nil, fmt.Errorf("unsupported feature: %s", feature)
	}
	return h.OnConfig(feature, args...)
}

var (
	_ Initializer  = (*Hooks)(nil)
	_ Shutdowner   = (*Hooks)(nil)
	_ Configurable = (*Hooks)(nil)
	_ Dependent    = (*Hooks)(nil)
)
