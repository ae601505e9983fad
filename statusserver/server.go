package statusserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/logger"
	"github.com/kbukum/componentkit/manager"
)

const (
	// Name is the name the server registers under.
	Name = "status"
	// TypeName is the component type of the server.
	TypeName = "status-server"
)

// Source is the read side of a component manager.
type Source interface {
	ID() string
	State() manager.LifecycleState
	Components() []manager.ComponentInfo
	Component(name string) (manager.ComponentInfo, bool)
	Get(name string) (any, bool, error)
	Order() []string
	Levels() ([][]string, error)
}

// Validate is the manager type validator for status servers.
func Validate(candidate any) bool {
	_, ok := candidate.(*Server)
	return ok
}

// Server serves the status routes for one Source.
type Server struct {
	component.Base

	cfg     Config
	src     Source
	service string
	log     *logger.Logger

	engine *gin.Engine
	http   *http.Server

	mu       sync.Mutex
	listener net.Listener
	serving  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithServiceName sets the service name reported by /health.
func WithServiceName(name string) Option {
	return func(s *Server) { s.service = name }
}

// New creates a server for src. Nothing is bound until Init.
func New(cfg Config, src Source, opts ...Option) *Server {
	cfg.ApplyDefaults()
	s := &Server{cfg: cfg, src: src, service: "componentkit"}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("statusserver")
	s.AddDependency(defaultlogger.Name)

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s.engine = gin.New()
	s.engine.Use(recovery(s.log), requestID(), requestLogger(s.log))
	s.routes()

	h2s := &http2.Server{
		MaxConcurrentStreams: 64,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, h2c included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr returns the bound address once serving, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Init binds the listener and serves in the background. It returns once the
// port is bound.
func (s *Server) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("status server failed to bind %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.serving = true

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("status server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	addr := ln.Addr().String()
	s.log.Info("status server listening", logger.Fields("addr", addr))
	s.announce(addr)
	return nil
}

// announce tells the default logger component where the server listens.
func (s *Server) announce(addr string) {
	if s.src == nil {
		return
	}
	inst, ok, err := s.src.Get(defaultlogger.Name)
	if err != nil || !ok {
		return
	}
	if l, ok := inst.(defaultlogger.Interface); ok {
		l.Info("status server listening on", addr)
	}
}

// Shutdown drains in-flight requests within the drain timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	serving := s.serving
	s.serving = false
	s.mu.Unlock()
	if !serving {
		return nil
	}

	drainCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.DrainTimeout)*time.Second)
	defer cancel()

	if err := s.http.Shutdown(drainCtx); err != nil {
		s.log.Error("status server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("status server shutdown: %w", err)
	}
	s.log.Info("status server stopped")
	return nil
}

// Health reports unhealthy until the listener is bound.
func (s *Server) Health(context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return component.Health{Name: Name, Status: component.StatusHealthy}
	}
	return component.Health{Name: Name, Status: component.StatusUnhealthy, Message: "not serving"}
}

// Describe implements component.Describable.
func (s *Server) Describe() component.Description {
	return component.Description{Name: "Status Server", Details: "listening on " + s.Addr()}
}

var (
	_ component.Initializer   = (*Server)(nil)
	_ component.Shutdowner    = (*Server)(nil)
	_ component.Dependent     = (*Server)(nil)
	_ component.HealthChecker = (*Server)(nil)
	_ component.Describable   = (*Server)(nil)
)
