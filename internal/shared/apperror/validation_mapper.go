package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// period_start -> Period Start
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first validator failure into an AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}

// FromBinding maps a gin binding failure: validator errors keep their field,
// anything else (malformed JSON, wrong types) becomes a generic 400.
func FromBinding(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return MapValidationError(errs)
	}
	return Wrap(err, CodeInvalidInput, "Invalid request body", http.StatusBadRequest)
}
