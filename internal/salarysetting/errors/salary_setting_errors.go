package salarysettingerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrSalarySettingNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary setting not found",
		http.StatusNotFound,
	)
	ErrEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"salary setting for this employee and effective date already exists",
		http.StatusConflict,
	)
	ErrMissingSalarySetting = apperror.New(
		apperror.CodeMissingConfig,
		"employee has no active salary setting",
		http.StatusUnprocessableEntity,
	)
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
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amounts must be non-negative decimals",
		http.StatusBadRequest,
	)
)
