package util

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs `validate` tags and reports failures as a VALIDATION_FAILED error
// whose details map each offending field to the rule it broke.
func ValidateStruct(s any) error {
	return toValidationError(validate.Struct(s))
}

// ValidateVar checks a single value against a validator tag.
func ValidateVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return NewValidationError("validation failed", map[string]any{field: verrs[0].Tag()})
		}
		return NewValidationError(err.Error(), nil)
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return NewValidationError("validation failed", details)
	}
	return NewValidationError(err.Error(), nil)
}
