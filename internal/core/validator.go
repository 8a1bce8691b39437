package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"propdesk/internal/types"
)

// Validator wraps go-playground/validator and translates its failures into
// the gateway's validation error codes.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator that reports field names from json tags so
// error details match the wire format clients sent.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct checks s against its validate tags. The first failing field
// determines the error code: "required" maps to a missing-field error,
// "email" to an invalid-email error, everything else to an invalid-field
// error. All failing fields are listed in the error details.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return types.NewAppError(types.ErrCodeValidationBadPayload, "request payload could not be validated", err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}

	first := verrs[0]
	code := types.ErrCodeValidationInvalidField
	switch first.Tag() {
	case "required", "required_without":
		code = types.ErrCodeValidationMissingField
	case "email":
		code = types.ErrCodeValidationInvalidEmail
	}

	return types.NewAppErrorWithDetails(code, "validation failed for field "+first.Field(), err, map[string]any{
		"fields": fields,
	})
}
