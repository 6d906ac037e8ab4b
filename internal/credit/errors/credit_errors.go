package crediterrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be leave or absence",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrForeignEmployee = apperror.New(
		apperror.CodeForbidden,
		"you can only view your own credits",
		http.StatusForbidden,
	)
)
