package roomsdk

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func paramValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// checkParams runs the struct tags on params and maps the first failing
// field to its sentinel error.
func checkParams(params any) error {
	err := paramValidator().Struct(params)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	switch fieldErrs[0].Field() {
	case "Name":
		return ErrMissingName
	case "Password":
		return ErrMissingPassword
	default:
		return fieldErrs[0]
	}
}

func checkID(id int64) error {
	if id <= 0 {
		return ErrMissingIDParameter
	}
	return nil
}
