package defaultlogger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kbukum/componentkit/component"
	"github.com/kbukum/componentkit/errors"
)

const (
	// Name is the component name the manager registers the default logger under.
	Name = "logger"
	// TypeName is the type the default logger is registered as.
	TypeName = "logger"
	// DefaultSource labels lines from loggers without a configured source.
	DefaultSource = "unknown"
)

// Configuration features understood by Logger.Config.
const (
	FeatureSetLevel  = "set-level"
	FeatureGetLevel  = "get-level"
	FeatureSetSource = "set-source"
)

const (
	errorMarker = "!!! ERROR:"
	warnMarker  = "! WARNING:"
)

// Interface is the logging contract other components can rely on when they
// look up the "logger" component.
type Interface interface {
	component.Configurable
	Error(args ...any)
	Warn(args ...any)
	Info(args ...any)
	Verbose(args ...any)
	Debug(args ...any)
	Silly(args ...any)
}

// Validate is the type validator for TypeName.
func Validate(candidate any) bool {
	_, ok := candidate.(Interface)
	return ok
}

// Logger is a level-gated line logger. Every line is prefixed with the
// source label, and error and warning lines carry a severity marker.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	source string
	out    zerolog.Logger
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	writer io.Writer
	source string
	level  Level
}

// WithWriter sets the output destination. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithSource sets the source label.
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// WithLevel sets the initial level.
func WithLevel(level Level) Option {
	return func(o *options) { o.level = level }
}

// New creates a Logger at DefaultLevel writing to stdout.
func New(opts ...Option) *Logger {
	o := &options{writer: os.Stdout, source: DefaultSource, level: DefaultLevel}
	for _, opt := range opts {
		opt(o)
	}

	cw := zerolog.ConsoleWriter{
		Out:        o.writer,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}

	return &Logger{
		level:  o.level,
		source: o.source,
		out:    zerolog.New(cw),
	}
}

// Config implements component.Configurable.
func (l *Logger) Config(feature string, args ...any) (any, error) {
	switch feature {
	case FeatureSetLevel:
		if len(args) == 0 {
			return nil, errors.Validation("set-level requires a level")
		}
		level, err := ParseLevel(args[0])
		if err != nil {
			return nil, err
		}
		l.SetLevel(level)
		return nil, nil
	case FeatureGetLevel:
		return l.Level().String(), nil
	case FeatureSetSource:
		if len(args) == 0 {
			return nil, errors.Validation("set-source requires a label")
		}
		source, ok := args[0].(string)
		if !ok || source == "" {
			return nil, errors.Validationf("invalid source label: %v", args[0])
		}
		l.mu.Lock()
		l.source = source
		l.mu.Unlock()
		return nil, nil
	default:
		return nil, errors.Configuration(Name, "unknown feature: "+feature)
	}
}

// Level returns the active level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetLevel sets the active level. Invalid levels are ignored.
func (l *Logger) SetLevel(level Level) {
	if !level.Valid() {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Source returns the source label.
func (l *Logger) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level > LevelSilent && level <= l.Level()
}

func (l *Logger) Error(args ...any)   { l.log(LevelError, errorMarker, args) }
func (l *Logger) Warn(args ...any)    { l.log(LevelWarn, warnMarker, args) }
func (l *Logger) Info(args ...any)    { l.log(LevelInfo, "", args) }
func (l *Logger) Verbose(args ...any) { l.log(LevelVerbose, "", args) }
func (l *Logger) Debug(args ...any)   { l.log(LevelDebug, "", args) }
func (l *Logger) Silly(args ...any)   { l.log(LevelSilly, "", args) }

// Describe implements component.Describable.
func (l *Logger) Describe() component.Description {
	return component.Description{
		Name:    "Default Logger",
		Details: fmt.Sprintf("level=%s source=%s", l.Level(), l.Source()),
	}
}

func (l *Logger) log(level Level, marker string, args []any) {
	if !l.Enabled(level) {
		return
	}

	parts := make([]string, 0, len(args)+2)
	parts = append(parts, l.Source()+":")
	if marker != "" {
		parts = append(parts, marker)
	}
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	l.out.Log().Msg(strings.Join(parts, " "))
}

var (
	_ Interface             = (*Logger)(nil)
	_ component.Describable = (*Logger)(nil)
)
