package director

import (
	"context"
	"sync"
)

// Handle holds at most one running director. Start returns the running
// director instead of starting a second one; Stop stops and forgets it.
type Handle struct {
	mu      sync.Mutex
	current *Director
	opts    []Option
}

// NewHandle creates a handle whose directors are built with opts.
func NewHandle(opts ...Option) *Handle {
	return &Handle{opts: opts}
}

// Start starts a director for cfg unless one is already running, in which
// case that one is returned and cfg is ignored.
func (h *Handle) Start(ctx context.Context, cfg *Config) (*Director, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		return h.current, nil
	}

	d := New(h.opts...)
	if err := d.Start(ctx, cfg); err != nil {
		return nil, err
	}
	h.current = d
	return d, nil
}

// Current returns the running director, or nil.
func (h *Handle) Current() *Director {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Stop stops the running director, if any, and clears the handle.
func (h *Handle) Stop(ctx context.Context) error {
	h.mu.Lock()
	d := h.current
	h.current = nil
	h.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.Stop(ctx)
}

var std = NewHandle()

// Start starts the process-wide director. See Handle.Start.
func Start(ctx context.Context, cfg *Config) (*Director, error) {
	return std.Start(ctx, cfg)
}

// Stop stops the process-wide director.
func Stop(ctx context.Context) error {
	return std.Stop(ctx)
}

// Current returns the process-wide director, or nil.
func Current() *Director {
	return std.Current()
}
