package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/componentkit/errors"
)

var (
	structs     *validator.Validate
	structsOnce sync.Once

	rulesMu  sync.RWMutex
	messages = map[string]string{}
)

func engine() *validator.Validate {
	structsOnce.Do(func() {
		structs = validator.New(validator.WithRequiredStructEnabled())
		structs.RegisterTagNameFunc(configKey)
	})
	return structs
}

// configKey names a field by the key it has in a config file: the yaml tag,
// then mapstructure, then json, then the snake_cased Go name.
func configKey(fld reflect.StructField) string {
	for _, tag := range []string{"yaml", "mapstructure", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return toSnakeCase(fld.Name)
}

// RegisterRule adds a string rule usable in validate tags. message is what a
// failing field reports, e.g. "must be a log level".
func RegisterRule(tag, message string, ok func(value string) bool) error {
	err := engine().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ok(fl.Field().String())
	})
	if err != nil {
		return errors.Validationf("rule %s: %s", tag, err.Error()).WithCause(err)
	}
	rulesMu.Lock()
	messages[tag] = message
	rulesMu.Unlock()
	return nil
}

// Validate checks s against its validate tags. Failures are reported by
// config path, for example "components[1].dependencies[0]: is required".
func Validate(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("invalid configuration").WithCause(err)
	}

	problems := make([]FieldError, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		problems = append(problems, FieldError{Field: configPath(e), Message: describe(e)})
	}
	return fieldsError(problems)
}

// configPath drops the root type from the namespace.
func configPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(e validator.FieldError) string {
	rulesMu.RLock()
	msg, ok := messages[e.Tag()]
	rulesMu.RUnlock()
	if ok {
		return msg
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "required_without_all":
		return "is required unless one of " + keyList(e.Param()) + " is set"
	case "required_without":
		return "is required unless " + keyList(e.Param()) + " is set"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "hostname_port":
		return "must be a host:port address"
	default:
		return "is invalid (" + e.Tag() + ")"
	}
}

// keyList turns a tag param of Go field names into config keys.
func keyList(param string) string {
	fields := strings.Fields(param)
	for i, f := range fields {
		fields[i] = toSnakeCase(f)
	}
	return strings.Join(fields, ", ")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
