package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into echo.Echo.Validator.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator used by c.Validate. Failures name fields
// by their JSON key, so a missing realName reads "realName is required".
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	parts := make([]string, len(fields))
	for i, fe := range fields {
		if fe.Tag() == "required" {
			parts[i] = fe.Field() + " is required"
		} else {
			parts[i] = fe.Field() + " is invalid"
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
