package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lifecycle engine errors
const (
	// ErrCodeValidation indicates malformed or missing arguments to a public operation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeRegistration indicates an instance failed its type's validator or
	// referenced an unregistered type.
	ErrCodeRegistration ErrorCode = "REGISTRATION_ERROR"
	// ErrCodeDependency indicates an unresolved dependency or a dependency cycle.
	ErrCodeDependency ErrorCode = "DEPENDENCY_ERROR"
	// ErrCodeConfiguration indicates a component cannot be configured as requested.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInvalidState indicates an operation is not allowed in the current lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Resource and internal errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
