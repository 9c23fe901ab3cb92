package handler

import (
	domainerrors "taskvault/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// validationMessages maps the first failed rule to the human message the
// API has always returned for it. Keys are "Field.tag".
var validationMessages = map[string]string{
	"Email.required":       "Invalid email address",
	"Email.email":          "Invalid email address",
	"Password.required":    "Password is required",
	"Password.min":         "Password must be at least 6 characters",
	"Password.max":         "Password must be less than 100 characters",
	"Title.required":       "Title is required",
	"Title.min":            "Title is required",
	"Title.max":            "Title must be less than 200 characters",
	"Description.required": "Description is required",
	"Description.min":      "Description is required",
	"Description.max":      "Description must be less than 5000 characters",
	"Status.oneof":         "Invalid status value",
}

// bindAndValidate decodes the JSON body into req and runs the declared
// rules, converting the first failure into a VALIDATION_ERROR.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.NewValidationError("Invalid request payload"))
	}

	if err := c.Validate(req); err != nil {
		return errors.WithStack(domainerrors.NewValidationError(validationMessage(err)))
	}

	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		if msg, ok := validationMessages[first.Field()+"."+first.Tag()]; ok {
			return msg
		}
	}

	return "Invalid request payload"
}
