package director

import (
	"github.com/kbukum/componentkit/config"
	"github.com/kbukum/componentkit/factory"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/manager"
)

// Option configures a Director.
type Option func(*options)

type prebuilt struct {
	name     string
	typeName string
	instance any
}

type options struct {
	log        *logger.Logger
	factories  *factory.Registry
	types      map[string]manager.Validator
	components []prebuilt
	mgrOpts    []manager.Option
	loaderOpts []config.LoaderOption
}

func resolveOptions(opts []Option) *options {
	o := &options{factories: factory.Default, types: make(map[string]manager.Validator)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the operational logger. If not set, the logger is
// initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithFactories sets the registry components are built from. Defaults to
// factory.Default.
func WithFactories(r *factory.Registry) Option {
	return func(o *options) { o.factories = r }
}

// WithType registers an extra component type on every manager the director
// creates.
func WithType(name string, validate manager.Validator) Option {
	return func(o *options) { o.types[name] = validate }
}

// WithComponent registers an already built component ahead of the
// configured ones.
func WithComponent(name, typeName string, instance any) Option {
	return func(o *options) {
		o.components = append(o.components, prebuilt{name: name, typeName: typeName, instance: instance})
	}
}

// WithManagerOptions passes options through to manager.New.
func WithManagerOptions(opts ...manager.Option) Option {
	return func(o *options) { o.mgrOpts = append(o.mgrOpts, opts...) }
}

// WithLoaderOptions passes options through to config loading in Handle.Run.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *options) { o.loaderOpts = append(o.loaderOpts, opts...) }
}
