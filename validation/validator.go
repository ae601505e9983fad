package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kbukum/componentkit/errors"
)

// FieldError names one rejected argument or config field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string { return f.Field + ": " + f.Message }

// Validator accumulates argument checks so an operation can report every
// bad argument at once.
type Validator struct {
	problems []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Add records a problem with field.
func (v *Validator) Add(field, message string) *Validator {
	v.problems = append(v.problems, FieldError{Field: field, Message: message})
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.problems) > 0
}

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError {
	return append([]FieldError(nil), v.problems...)
}

// Validate returns a VALIDATION_ERROR listing every failed check, or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.problems)
}

// Err is Validate typed as error, so a clean validator yields a true nil.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
	return v
}

// NotNil rejects nil, including typed nil pointers, maps, slices, funcs,
// channels and interfaces.
func (v *Validator) NotNil(field string, value any) *Validator {
	if isNil(value) {
		v.Add(field, "is required")
	}
	return v
}

// OneOf rejects a non-empty value outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// Custom records message for field unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.Add(field, message)
	}
	return v
}

// Required validates a single name-like argument.
func Required(field, value string) error {
	return New().Required(field, value).Err()
}

// NotNil validates a single instance argument.
func NotNil(field string, value any) error {
	return New().NotNil(field, value).Err()
}

func fieldsError(problems []FieldError) *errors.AppError {
	parts := make([]string, len(problems))
	for i, p := range problems {
		parts[i] = p.String()
	}
	return errors.Validation(strings.Join(parts, "; ")).
		WithDetail("fields", append([]FieldError(nil), problems...))
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
