package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/componentkit/component"
)

// Component is a fully capable component that records each hook call and
// can be told to fail. The zero value is usable; a nil Recorder records
// nothing.
type Component struct {
	component.Base

	Name     string
	Recorder *Recorder

	// InitErr and ShutdownErr are returned by the hooks.
	InitErr     error
	ShutdownErr error
	// InitPanic, when non-nil, makes Init panic with its value.
	InitPanic any
	// OnInit runs inside Init after recording, before InitErr is returned.
	OnInit func(ctx context.Context) error

	mu       sync.Mutex
	settings map[string][]any
}

// NewComponent creates a recording component depending on deps.
func NewComponent(name string, rec *Recorder, deps ...string) *Component {
	c := &Component{Name: name, Recorder: rec}
	for _, d := range deps {
		c.AddDependency(d)
	}
	return c
}

func (c *Component) record(hook string) {
	if c.Recorder != nil {
		c.Recorder.Record(c.Name, hook)
	}
}

// Init implements component.Initializer.
func (c *Component) Init(ctx context.Context) error {
	c.record(HookInit)
	if c.InitPanic != nil {
		panic(c.InitPanic)
	}
	if c.OnInit != nil {
		if err := c.OnInit(ctx); err != nil {
			return err
		}
	}
	return c.InitErr
}

// Shutdown implements component.Shutdowner.
func (c *Component) Shutdown(ctx context.Context) error {
	c.record(HookShutdown)
	return c.ShutdownErr
}

// Config implements component.Configurable. "set" stores args under
// args[0], "get" returns them, and "echo" returns args unchanged.
func (c *Component) Config(feature string, args ...any) (any, error) {
	c.record(HookConfig)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch feature {
	case "echo":
		return args, nil
	case "set":
		if len(args) == 0 {
			return nil, fmt.Errorf("set requires a key")
		}
		if c.settings == nil {
			c.settings = make(map[string][]any)
		}
		c.settings[fmt.Sprint(args[0])] = args[1:]
		return nil, nil
	case "get":
		if len(args) == 0 {
			return nil, fmt.Errorf("get requires a key")
		}
		return c.settings[fmt.Sprint(args[0])], nil
	default:
		return nil, fmt.Errorf("unsupported feature: %s", feature)
	}
}

// Setting returns the values stored for key by the "set" feature.
func (c *Component) Setting(key string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings[key]
}

// Inert has no capabilities at all.
type Inert struct {
	Label string
}

var (
	_ component.Initializer  = (*Component)(nil)
	_ component.Shutdowner   = (*Component)(nil)
	_ component.Configurable = (*Component)(nil)
	_ component.Dependent    = (*Component)(nil)
)
