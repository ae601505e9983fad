package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified error type returned by every componentkit operation.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`

	// bare errors print Message alone.
	bare bool
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.bare {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// ErrorCode returns the code as a plain string, for packages that cannot
// import this one.
func (e *AppError) ErrorCode() string { return string(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Constructors ---

// Validation creates an error for malformed or missing arguments.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validationf is Validation with a format string.
func Validationf(format string, args ...any) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// Registration creates an error for a rejected component registration.
func Registration(typeName, message string) *AppError {
	return &AppError{
		Code: ErrCodeRegistration, Message: message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"type": typeName},
	}
}

// InvalidType creates the registration error for an instance rejected by its type validator.
func InvalidType(typeName string) *AppError {
	return Registration(typeName, "object not a valid type: "+typeName)
}

// UnknownType creates the registration error for an unregistered type name.
func UnknownType(typeName string) *AppError {
	return Registration(typeName, "unknown type: "+typeName)
}

// MissingDependency creates the dependency error for an unresolved dependency name.
func MissingDependency(dependent, missing string) *AppError {
	return &AppError{
		Code:       ErrCodeDependency,
		Message:    fmt.Sprintf("'%s' cannot find dependency '%s'", dependent, missing),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"dependent": dependent, "missing": missing},
		bare:       true,
	}
}

// DependencyCycle creates the dependency error for a cycle. The path must already
// be closed (its last element repeats the first). Like MissingDependency, its
// Error() is the message without the code prefix.
func DependencyCycle(path []string) *AppError {
	return &AppError{
		Code:       ErrCodeDependency,
		Message:    "Dependency Cycle Found: " + strings.Join(path, " -> "),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"path": path},
		bare:       true,
	}
}

// Configuration creates an error for a rejected configuration request.
func Configuration(component, message string) *AppError {
	details := map[string]any{}
	if component != "" {
		details["component"] = component
	}
	return &AppError{
		Code: ErrCodeConfiguration, Message: message,
		HTTPStatus: http.StatusUnprocessableEntity, Details: details,
	}
}

// NotConfigurable creates the configuration error for a component without a config capability.
func NotConfigurable(component string) *AppError {
	return Configuration(component, "component does not support configuration: "+component)
}

// InvalidState creates an error for an operation attempted in the wrong lifecycle state.
func InvalidState(operation, state string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidState,
		Message:    fmt.Sprintf("cannot %s while manager is %s", operation, state),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"operation": operation, "state": state},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if HasCode(e, code) {
					return true
				}
			}
			return false
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// CodeOf returns the code of the outermost AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
