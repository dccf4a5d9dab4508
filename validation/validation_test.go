package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
)

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("email", "  ", v)
	Required("username", "bob", v)
	NonEmptyList("symptoms", nil, v)
	if v["email"] != "required" || v["symptoms"] != "required" {
		t.Fatalf("violations=%v", v)
	}
	if _, ok := v["username"]; ok {
		t.Fatalf("username should be valid")
	}
}

func TestFromBinding(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required"`
	}
	err := validator.New().Struct(req{Email: "nope"})
	v := FromBinding(err)
	if v["email"] != "invalid_email" || v["password"] != "required" {
		t.Fatalf("violations=%v", v)
	}

	if v := FromBinding(errors.New("unexpected EOF")); v["body"] != "invalid_json" {
		t.Fatalf("violations=%v", v)
	}
}

func TestErr(t *testing.T) {
	if (Violations{}).Err("x") != nil {
		t.Fatalf("empty violations must not error")
	}
	err := Violations{"email": "required"}.Err("Missing fields")
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInvalidInput || appErr.Fields["email"] != "required" {
		t.Fatalf("err=%v", err)
	}
}
