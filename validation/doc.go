// Package validation provides argument and struct validation for componentkit.
//
// Programmatic checks guard the public manager operations (empty names,
// missing instances). Struct tag validation covers decoded configuration.
//
// # Struct Tag Validation
//
//	type ComponentSpec struct {
//	    Name    string `validate:"required"`
//	    Package string `validate:"required"`
//	}
//	err := validation.Validate(spec)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("name", name).
//	    NotNil("instance", instance).
//	    Err()
package validation
