package http

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"

	"github.com/go-playground/validator"
)

// requestValidator checks request bodies against their `validate` tags.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures become ValueIsInvalidError so they
// map to 400 like domain validation errors.
func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return errs.NewValueIsInvalidErrorWithCause("request", fmt.Errorf("%s", strings.Join(problems, "; ")))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice type directly
	if ok {
		*target = fieldErrs
	}
	return ok
}
