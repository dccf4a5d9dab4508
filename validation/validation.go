package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonEmptyList(field string, values []string, v Violations) {
	if len(values) == 0 {
		v[field] = "required"
	}
}

// FromBinding converts gin binding errors into violations keyed by json field name.
func FromBinding(err error) Violations {
	v := Violations{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			v[jsonName(fe.Field())] = reason(fe.Tag())
		}
		return v
	}
	v["body"] = "invalid_json"
	return v
}

// Err turns violations into an InvalidInput error, or nil when empty.
func (v Violations) Err(message string) error {
	if v.Empty() {
		return nil
	}
	e := apperr.InvalidInput("VALIDATION", message)
	for field, r := range v {
		e.WithField(field, r)
	}
	return e
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "invalid_email"
	case "min", "max":
		return "invalid_length"
	default:
		return "invalid"
	}
}

func jsonName(field string) string {
	return strings.ToLower(field)
}
