package defaultlogger

import (
	"math"
	"reflect"

	"github.com/kbukum/componentkit/errors"
)

// Level is a logging severity. Higher values are more verbose.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelDebug
	LevelSilly
)

// DefaultLevel is the level of a new Logger.
const DefaultLevel = LevelDebug

var levelNames = [...]string{"silent", "error", "warn", "info", "verbose", "debug", "silly"}

// String returns the level name.
func (l Level) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelSilent && l <= LevelSilly
}

// Levels returns every level name from least to most verbose.
func Levels() []string {
	return levelNames[:]
}

// ParseLevel accepts an exact level name or an integral number in [0,6].
// Numbers may be any Go integer kind or an integral float, as produced by
// JSON and YAML decoders. Anything else is a validation error.
func ParseLevel(v any) (Level, error) {
	switch val := v.(type) {
	case string:
		for i, name := range levelNames {
			if val == name {
				return Level(i), nil
			}
		}
	case Level:
		if val.Valid() {
			return val, nil
		}
	default:
		if n, ok := integral(v); ok && n >= int64(LevelSilent) && n <= int64(LevelSilly) {
			return Level(n), nil
		}
	}
	return 0, errors.Validationf("unknown level while configuring levels: %v", v)
}

func integral(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
