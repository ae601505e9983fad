package logger

import (
	stderrors "errors"
	"time"
)

// Field keys shared by the manager, the director and the status server, so
// one query finds a component across all of them.
const (
	FieldComponent  = "component"
	FieldName       = "name"
	FieldManagerID  = "manager_id"
	FieldRunID      = "run_id"
	FieldType       = "type"
	FieldState      = "state"
	FieldDependency = "dependency"
	FieldOrder      = "order"
	FieldFeature    = "feature"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldErrorCode  = "error_code"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
)

// Fields pairs up alternating keys and values. A non-string key drops its
// pair; a trailing key without a value is ignored.
//
//	log.Info("component ready", logger.Fields(logger.FieldName, "db", logger.FieldOrder, 2))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// coded matches componentkit's AppError without importing it.
type coded interface {
	error
	ErrorCode() string
}

// ErrorFields describes a failed operation. Errors carrying a code, such
// as DEPENDENCY_ERROR, also get an error_code field.
func ErrorFields(op string, err error) map[string]any {
	m := map[string]any{FieldOperation: op, FieldError: err.Error()}
	var c coded
	if stderrors.As(err, &c) {
		m[FieldErrorCode] = c.ErrorCode()
	}
	return m
}

// DurationFields describes a finished operation.
func DurationFields(op string, d time.Duration) map[string]any {
	return map[string]any{FieldOperation: op, FieldDuration: d.Milliseconds()}
}
