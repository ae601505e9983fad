// Package errors provides the structured error taxonomy of componentkit.
// Every public operation returns an *AppError carrying one of the codes in
// codes.go, so callers can branch on ValidationError, RegistrationError,
// DependencyError and ConfigurationError without string matching.
package errors
