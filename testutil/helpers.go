package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds contexts returned by Context.
const DefaultTimeout = 10 * time.Second

// AlwaysValid is a type validator accepting every candidate.
func AlwaysValid(any) bool { return true }

// NeverValid is a type validator rejecting every candidate.
func NeverValid(any) bool { return false }

// Context returns a context cancelled when the test ends or after
// DefaultTimeout.
func Context(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	t.Cleanup(cancel)
	return ctx
}

// Shutdowner is anything with a Shutdown method, such as a manager.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// CleanupShutdown registers s.Shutdown with t.Cleanup and reports its error.
func CleanupShutdown(t testing.TB, s Shutdowner) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})
}
