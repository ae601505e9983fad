package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FormatPretty is an alias of console kept for config files that use it.
const FormatPretty = "pretty"

// Logger is the operational log of the runtime: a zerolog logger plus the
// component it speaks for.
type Logger struct {
	zl        zerolog.Logger
	component string
}

// Init builds the global logger from cfg, after applying its defaults.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	SetGlobalLogger(New(cfg, nil))
}

// New builds a logger from cfg. A nil w writes to cfg.Output.
func New(cfg *Config, w io.Writer) *Logger {
	if w == nil {
		w = outputWriter(cfg.Output)
	}
	if f := strings.ToLower(cfg.Format); f == "console" || f == FormatPretty {
		w = newConsoleWriter(cfg, w)
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return &Logger{zl: ctx.Logger()}
}

// NewDefault is New with a defaulted Config: console, info, stderr.
func NewDefault() *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, nil)
}

// Nop discards everything; handy for tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// WithComponent tags every entry with component=name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger(), component: name}
}

// WithFields attaches fields to every entry; the component tag is kept.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger(), component: l.component}
}

// WithError attaches err to every entry.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger(), component: l.component}
}

// Component returns the component tag, or "".
func (l *Logger) Component() string {
	return l.component
}

// GetLogger exposes the zerolog logger underneath.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.zl
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.zl.Error(), msg, fields) }

// emit writes one entry; a disabled level yields a nil event, which zerolog
// treats as a no-op.
func emit(event *zerolog.Event, msg string, fields []map[string]any) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// SetGlobalLogger replaces the logger behind the package-level functions.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, creating a default one on first
// use.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = NewDefault()
	}
	return global
}

func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent tags the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

// levelStyles maps zerolog level names to a tag and an ANSI colour.
var levelStyles = map[string]struct{ tag, color string }{
	"trace": {"[TRC]", "36"},
	"debug": {"[DBG]", "36"},
	"info":  {"[INF]", "32"},
	"warn":  {"[WRN]", "33"},
	"error": {"[ERR]", "31"},
	"fatal": {"[FTL]", "31"},
	"panic": {"[PNC]", "31"},
}

func newConsoleWriter(cfg *Config, w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i any) string {
			name := strings.ToLower(fmt.Sprint(i))
			style, ok := levelStyles[name]
			if !ok {
				return "[" + strings.ToUpper(name) + "]"
			}
			if cfg.NoColor {
				return style.tag
			}
			return "\033[" + style.color + "m" + style.tag + "\033[0m"
		},
		FormatFieldName: func(i any) string { return fmt.Sprint(i) + ":" },
		// Arrays and objects arrive as raw JSON bytes.
		FormatFieldValue: func(i any) string {
			switch v := i.(type) {
			case nil:
				return ""
			case []byte:
				return string(v)
			}
			return fmt.Sprintf("%s", i)
		},
	}
}
