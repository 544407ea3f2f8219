package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/campusworks/quiz-attempt-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with JSON tag names registered
// and converts failures to ValidationErrors.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	// Report fields under their JSON names so error messages match the
	// request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}
