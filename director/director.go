package director

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/factory"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/manager"
	"github.com/kbukum/componentkit/observability"
	"github.com/kbukum/componentkit/resolver"
	"github.com/kbukum/componentkit/statusserver"
	"github.com/kbukum/componentkit/version"
)

// Director turns a Config into a running set of components: it builds each
// one through the factory registry, registers it with a fresh manager,
// initializes the graph and applies log level and settings.
type Director struct {
	mu sync.Mutex

	opts  *options
	cfg   *Config
	mgr   *manager.Manager
	runID string
	base  *logger.Logger
	log   *logger.Logger

	telemetryShutdown observability.ShutdownFunc
	status            *statusserver.Server
	summary           *Summary
	running           bool
	starting          bool

	onReady []Hook
	onStop  []Hook
}

// New creates a director. Nothing happens until Start.
func New(opts ...Option) *Director {
	return &Director{opts: resolveOptions(opts)}
}

// Manager returns the manager of the current run, or nil before Start.
func (d *Director) Manager() *manager.Manager {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mgr
}

// Config returns the configuration of the current run.
func (d *Director) Config() *Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// RunID identifies the current run in logs.
func (d *Director) RunID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runID
}

// Running reports whether Start succeeded and Stop has not run yet.
func (d *Director) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Summary returns the startup summary of the current run.
func (d *Director) Summary() *Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// StartFile loads path and starts it.
func (d *Director) StartFile(ctx context.Context, path string) error {
	cfg, err := Load(path, d.opts.loaderOpts...)
	if err != nil {
		return err
	}
	return d.Start(ctx, cfg)
}

// Start builds, registers and initializes every component in cfg. A nil cfg
// starts only the default logger. On any failure the components that did
// come up are shut down again and the error is returned.
func (d *Director) Start(ctx context.Context, cfg *Config) error {
	d.mu.Lock()
	if d.running || d.starting {
		d.mu.Unlock()
		return errors.InvalidState("start", "running")
	}
	d.starting = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.starting = false
		d.mu.Unlock()
	}()

	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	start := time.Now()
	runID := uuid.NewString()
	base := d.opts.log
	if base == nil {
		logger.Init(&cfg.Logging)
		base = logger.GetGlobalLogger()
	}
	log := base.WithComponent("director").WithFields(logger.Fields(logger.FieldRunID, runID))
	log.Info("starting", logger.Fields(logger.FieldName, cfg.Name, "version", cfg.Version, logger.FieldCount, len(cfg.Components)))

	telemetryShutdown, err := observability.Setup(ctx, cfg.Name, cfg.Version, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}

	mgrOpts := append([]manager.Option{manager.WithLogger(base)}, d.opts.mgrOpts...)
	mgr := manager.New(mgrOpts...)

	d.mu.Lock()
	d.cfg, d.mgr, d.runID, d.base, d.log = cfg, mgr, runID, base, log
	d.telemetryShutdown = telemetryShutdown
	d.summary = NewSummary(cfg.Name, version.Get().Short())
	d.status = nil
	d.mu.Unlock()

	names, err := d.register(ctx, cfg, mgr)
	if err != nil {
		return d.abort(ctx, err)
	}

	if err := mgr.Init(ctx); err != nil {
		log.Error("initialization failed", logger.ErrorFields("init", err))
		return d.abort(ctx, err)
	}

	if err := d.configure(cfg, mgr, names); err != nil {
		return d.abort(ctx, err)
	}

	d.mu.Lock()
	hooks := append([]Hook(nil), d.onReady...)
	d.running = true
	d.mu.Unlock()

	if err := runHooks(ctx, d, hooks); err != nil {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		return d.abort(ctx, fmt.Errorf("onReady: %w", err))
	}

	d.summary.Collect(mgr, time.Since(start))
	d.summary.Log(log)
	return nil
}

// register sets up types, then prebuilt, configured and status components.
// It returns the registered name of each configured component.
func (d *Director) register(ctx context.Context, cfg *Config, mgr *manager.Manager) ([]string, error) {
	for name, validate := range BuiltinTypes() {
		if err := mgr.RegisterType(name, validate); err != nil {
			return nil, err
		}
	}
	for name, validate := range d.opts.types {
		if err := mgr.RegisterType(name, validate); err != nil {
			return nil, err
		}
	}

	for _, p := range d.opts.components {
		if err := mgr.Register(p.name, p.typeName, p.instance); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(cfg.Components))
	for _, spec := range cfg.Components {
		name, err := d.registerSpec(ctx, mgr, spec)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	if cfg.Status.Enabled {
		if err := mgr.RegisterType(statusserver.TypeName, statusserver.Validate); err != nil {
			return nil, err
		}
		srv := statusserver.New(cfg.Status, mgr,
			statusserver.WithLogger(d.base),
			statusserver.WithServiceName(cfg.Name),
		)
		if err := mgr.Register(statusserver.Name, statusserver.TypeName, srv); err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.status = srv
		d.mu.Unlock()
	}
	return names, nil
}

// registerSpec resolves, builds and registers one component.
func (d *Director) registerSpec(ctx context.Context, mgr *manager.Manager, spec ComponentSpec) (string, error) {
	fspec := factory.Spec{
		Name:         spec.Name,
		Type:         spec.Type,
		Package:      spec.Package,
		ConfigDir:    spec.ConfigDir,
		Dependencies: append([]string(nil), spec.Dependencies...),
		Settings:     spec.Settings,
	}

	// config_dir is inherited by every listed component; it only names the
	// component when nothing else does.
	if spec.Package != "" || spec.Name == "" {
		res, err := resolver.ResolveSpec(resolver.Spec{Package: spec.Package, ConfigDir: spec.ConfigDir})
		if err != nil {
			return "", fmt.Errorf("component %s: %w", describeSpec(spec), err)
		}
		fspec.Resolved = res.Name
		if res.Manifest != nil {
			if fspec.Type == "" {
				fspec.Type = res.Manifest.Type
			}
			for _, dep := range res.Manifest.Dependencies {
				if !slices.Contains(fspec.Dependencies, dep) {
					fspec.Dependencies = append(fspec.Dependencies, dep)
				}
			}
		}
	}
	if fspec.Name == "" {
		fspec.Name = fspec.Resolved
	}
	if fspec.Type == "" {
		fspec.Type = TypeGeneric
	}

	instance, err := d.opts.factories.Build(ctx, fspec)
	if err != nil {
		return "", fmt.Errorf("component %s: %w", fspec.Name, err)
	}
	if err := mgr.Register(fspec.Name, fspec.Type, instance); err != nil {
		return "", err
	}
	for _, dep := range fspec.Dependencies {
		if err := mgr.AddDependency(fspec.Name, dep); err != nil {
			return "", err
		}
	}

	d.log.Debug("component built", logger.Fields(
		logger.FieldName, fspec.Name,
		logger.FieldType, fspec.Type,
		"package", fspec.Package,
		"resolved", fspec.Resolved,
	))
	return fspec.Name, nil
}

// configure applies log_level to the default logger, then each component's
// settings in sorted key order.
func (d *Director) configure(cfg *Config, mgr *manager.Manager, names []string) error {
	if cfg.LogLevel != "" {
		if _, err := mgr.Config(defaultlogger.Name, defaultlogger.FeatureSetLevel, cfg.LogLevel); err != nil {
			return err
		}
	}
	for i, spec := range cfg.Components {
		if len(spec.Settings) == 0 {
			continue
		}
		name := names[i]
		keys := make([]string, 0, len(spec.Settings))
		for k := range spec.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var args []any
			if v := spec.Settings[k]; v != nil {
				args = []any{v}
			}
			if _, err := mgr.Config(name, k, args...); err != nil {
				return err
			}
		}
	}
	return nil
}

// abort shuts down whatever came up, stops telemetry and returns cause
// joined with any teardown errors.
func (d *Director) abort(ctx context.Context, cause error) error {
	d.mu.Lock()
	mgr, shutdownTelemetry, log := d.mgr, d.telemetryShutdown, d.log
	d.telemetryShutdown = nil
	d.mu.Unlock()

	errs := []error{cause}
	if mgr != nil {
		if err := mgr.Shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	if log != nil {
		log.Warn("start aborted", logger.ErrorFields("start", cause))
	}
	if len(errs) == 1 {
		return cause
	}
	return stderrors.Join(errs...)
}

// Stop runs the OnStop hooks, shuts the manager down within the configured
// shutdown timeout and flushes telemetry. Stop on a director that is not
// running is a no-op.
func (d *Director) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	mgr, cfg, log := d.mgr, d.cfg, d.log
	shutdownTelemetry := d.telemetryShutdown
	d.telemetryShutdown = nil
	hooks := append([]Hook(nil), d.onStop...)
	d.mu.Unlock()

	log.Info("shutting down", logger.Fields("timeout", cfg.ShutdownTimeout.String()))
	ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, d, hooks); err != nil {
		log.Error("OnStop hook error", logger.ErrorFields("stop", err))
		errs = append(errs, err)
	}
	if err := mgr.Shutdown(ctx); err != nil {
		log.Error("shutdown completed with errors", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info("shutdown complete")
	return stderrors.Join(errs...)
}

// Run starts cfg, blocks until SIGINT, SIGTERM or ctx is done, then stops.
func (d *Director) Run(ctx context.Context, cfg *Config) error {
	if err := d.Start(ctx, cfg); err != nil {
		return err
	}
	d.WaitForSignal(ctx)
	return d.Stop(context.WithoutCancel(ctx))
}

// WaitForSignal blocks until an interrupt or terminate signal arrives or ctx
// is cancelled.
func (d *Director) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	log := d.logger()
	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		log.Info("context canceled, shutting down")
		return nil
	}
}

func (d *Director) logger() *logger.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.log != nil {
		return d.log
	}
	return logger.WithComponent("director")
}

func describeSpec(spec ComponentSpec) string {
	switch {
	case spec.Name != "":
		return spec.Name
	case spec.Package != "":
		return spec.Package
	default:
		return spec.ConfigDir
	}
}
