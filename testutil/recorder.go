package testutil

import (
	"slices"
	"sync"
)

// Hook names recorded by Component.
const (
	HookInit     = "init"
	HookShutdown = "shutdown"
	HookConfig   = "config"
)

// Event is one recorded hook call.
type Event struct {
	Component string
	Hook      string
}

// Recorder collects hook calls in the order they happen. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an event.
func (r *Recorder) Record(component, hook string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Component: component, Hook: hook})
}

// Events returns every recorded event.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns the components that ran hook, in call order.
func (r *Recorder) Names(hook string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, e := range r.events {
		if e.Hook == hook {
			names = append(names, e.Component)
		}
	}
	return names
}

// Before reports whether a ran hook strictly before b did. It is false when
// either never ran hook.
func (r *Recorder) Before(hook, a, b string) bool {
	names := r.Names(hook)
	ia, ib := slices.Index(names, a), slices.Index(names, b)
	return ia >= 0 && ib >= 0 && ia < ib
}

// Reset forgets every event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
