package payrollerrors

import (
	"net/http"

	salarysettingerrors "hris-payroll/internal/salarysetting/errors"
	"hris-payroll/internal/shared/apperror"
)

// ErrMissingSalarySetting is fatal for a calculation; no partial payroll is written.
var ErrMissingSalarySetting = salarysettingerrors.ErrMissingSalarySetting

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found in this company",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConcurrencyConflict,
		"payroll is being recalculated by another request, retry",
		http.StatusConflict,
	)
)
