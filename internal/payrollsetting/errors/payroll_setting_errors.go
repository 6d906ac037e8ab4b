package payrollsettingerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidKey = apperror.New(
		apperror.CodeInvalidInput,
		"setting key must be 1-100 characters of a-z, 0-9, dot or underscore",
		http.StatusBadRequest,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"type must be one of decimal, integer, boolean, string",
		http.StatusBadRequest,
	)
	ErrValueTypeMismatch = apperror.New(
		apperror.CodeValidation,
		"value does not match the declared type",
		http.StatusBadRequest,
	)
)
