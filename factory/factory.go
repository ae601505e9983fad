package factory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/componentkit/errors"
)

// Spec is what a constructor may receive about the component it builds.
type Spec struct {
	Name         string
	Type         string
	Package      string
	Resolved     string // name the package resolved to
	ConfigDir    string
	Dependencies []string
	Settings     map[string]any
}

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	specType  = reflect.TypeOf(Spec{})
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

type constructor struct {
	fn     reflect.Value
	inputs []reflect.Type
}

// Registry holds constructors keyed by package reference.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]constructor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ctors: make(map[string]constructor)}
}

// Register binds pkg to ctor, replacing any previous binding. Accepted shapes:
//
//	func() T
//	func() (T, error)
//	func(context.Context) (T, error)
//	func(Spec) (T, error)
//	func(context.Context, Spec) (T, error)
func (r *Registry) Register(pkg string, ctor any) error {
	if pkg == "" {
		return errors.Validation("factory package is required")
	}
	c, err := inspect(ctor)
	if err != nil {
		return errors.Validationf("factory %s: %s", pkg, err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[pkg] = c
	return nil
}

// Has reports whether pkg is registered.
func (r *Registry) Has(pkg string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[pkg]
	return ok
}

// Packages returns the registered references, sorted.
func (r *Registry) Packages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build looks up spec.Package, then spec.Resolved, then spec.Name and calls
// the first constructor found.
func (r *Registry) Build(ctx context.Context, spec Spec) (any, error) {
	key, c, ok := r.lookup(spec)
	if !ok {
		ref := spec.Package
		if ref == "" {
			ref = spec.Name
		}
		return nil, errors.NotFound("factory", ref)
	}
	instance, err := call(ctx, c, spec)
	if err != nil {
		return nil, fmt.Errorf("factory %s: %w", key, err)
	}
	if isNil(instance) {
		return nil, errors.Registration(spec.Type, fmt.Sprintf("factory %s returned nil", key))
	}
	return instance, nil
}

func (r *Registry) lookup(spec Spec) (string, constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range []string{spec.Package, spec.Resolved, spec.Name} {
		if key == "" {
			continue
		}
		if c, ok := r.ctors[key]; ok {
			return key, c, true
		}
	}
	return "", constructor{}, false
}

func inspect(ctor any) (constructor, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return constructor{}, fmt.Errorf("constructor must be a function, got %T", ctor)
	}
	t := fn.Type()
	if t.IsVariadic() {
		return constructor{}, fmt.Errorf("constructor must not be variadic")
	}

	inputs := make([]reflect.Type, t.NumIn())
	for i := range inputs {
		inputs[i] = t.In(i)
	}
	switch {
	case len(inputs) == 0:
	case len(inputs) == 1 && (inputs[0] == ctxType || inputs[0] == specType):
	case len(inputs) == 2 && inputs[0] == ctxType && inputs[1] == specType:
	default:
		return constructor{}, fmt.Errorf("unsupported constructor arguments %s", t)
	}

	switch t.NumOut() {
	case 1:
		if len(inputs) > 0 {
			return constructor{}, fmt.Errorf("constructor with arguments must return (instance, error)")
		}
	case 2:
		if t.Out(1) != errorType {
			return constructor{}, fmt.Errorf("second result must be error, got %s", t.Out(1))
		}
	default:
		return constructor{}, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
	return constructor{fn: fn, inputs: inputs}, nil
}

func call(ctx context.Context, c constructor, spec Spec) (instance any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Internal(fmt.Errorf("constructor panic: %v", p))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	args := make([]reflect.Value, len(c.inputs))
	for i, in := range c.inputs {
		if in == ctxType {
			args[i] = reflect.ValueOf(&ctx).Elem()
		} else {
			args[i] = reflect.ValueOf(spec)
		}
	}

	results := c.fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// Register binds pkg in Default.
func Register(pkg string, ctor any) error { return Default.Register(pkg, ctor) }

// Build builds spec from Default.
func Build(ctx context.Context, spec Spec) (any, error) { return Default.Build(ctx, spec) }
