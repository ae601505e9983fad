package director

import (
	"context"
	"fmt"
)

// Hook is a callback run at a director lifecycle point.
type Hook func(ctx context.Context, d *Director) error

// OnReady registers hooks that run after every component is initialized and
// configured. A failing hook aborts Start and tears the components down.
func (d *Director) OnReady(hooks ...Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReady = append(d.onReady, hooks...)
}

// OnStop registers hooks that run at the start of Stop, before components
// are shut down. Their errors are reported but do not stop the shutdown.
func (d *Director) OnStop(hooks ...Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onStop = append(d.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, d *Director, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx, d); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
