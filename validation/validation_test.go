package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/componentkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "db", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().Required("name", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

type sample struct{}

func TestValidatorNotNil(t *testing.T) {
	var nilPtr *sample
	var nilFunc func(any) bool
	var nilMap map[string]int

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"untyped nil", nil, true},
		{"typed nil pointer", nilPtr, true},
		{"nil func", nilFunc, true},
		{"nil map", nilMap, true},
		{"struct value", sample{}, false},
		{"pointer", &sample{}, false},
		{"zero int", 0, false},
		{"empty string", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().NotNil("instance", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("format", "json", []string{"json", "console"})
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("format", "xml", []string{"json", "console"})
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	v3 := New()
	v3.OneOf("format", "", []string{"json"})
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(false, "feature", "custom error")
	if !v.HasErrors() {
		t.Fatal("expected error for false condition")
	}
	if v.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Required("name", "db").Validate() != nil {
		t.Error("expected nil for valid input")
	}

	appErr := New().Required("name", "").NotNil("instance", nil).Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "instance") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
	if appErr.Details["fields"] == nil {
		t.Error("expected field details")
	}
}

func TestValidatorErr_NilWhenClean(t *testing.T) {
	if err := New().Required("name", "db").Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "db").NotNil("instance", 1).OneOf("format", "json", []string{"json"})
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestPackageHelpers(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	if err := NotNil("instance", nil); err == nil {
		t.Error("expected error for nil instance")
	}
}

func TestStructValidate(t *testing.T) {
	type Spec struct {
		Name         string   `yaml:"name" validate:"required_without_all=Package"`
		Package      string   `yaml:"package"`
		Dependencies []string `yaml:"dependencies" validate:"dive,required"`
		LogLevel     string   `yaml:"log_level" validate:"omitempty,oneof=silent error warn info verbose debug silly"`
	}
	type Config struct {
		Components []Spec `yaml:"components" validate:"dive"`
		Workers    int    `validate:"min=1"`
	}

	tests := []struct {
		name     string
		in       Config
		wantErr  bool
		contains string
	}{
		{"valid", Config{Workers: 1, Components: []Spec{{Name: "db"}, {Package: "pg-store"}}}, false, ""},
		{"unnamed", Config{Workers: 1, Components: []Spec{{Name: "db"}, {}}}, true, "components[1].name: is required unless one of package is set"},
		{"empty dependency", Config{Workers: 1, Components: []Spec{{Name: "db", Dependencies: []string{"a", ""}}}}, true, "components[0].dependencies[1]: is required"},
		{"bad level", Config{Workers: 1, Components: []Spec{{Name: "db", LogLevel: "loud"}}}, true, "log_level: must be one of"},
		{"untagged field", Config{}, true, "workers: must be at least 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.contains != "" && !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected %q in %q", tc.contains, err.Error())
			}
		})
	}
}

func TestRegisterRule(t *testing.T) {
	err := RegisterRule("even_len", "must have an even length", func(v string) bool { return len(v)%2 == 0 })
	if err != nil {
		t.Fatalf("RegisterRule failed: %v", err)
	}

	type Thing struct {
		Label string `yaml:"label" validate:"even_len"`
	}
	if err := Validate(Thing{Label: "ab"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	err = Validate(Thing{Label: "abc"})
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "label: must have an even length") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
