package absenceerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

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
		"from_date must be before or equal to_date",
		http.StatusBadRequest,
	)
	ErrPartialDaySpan = apperror.New(
		apperror.CodeInvalidInput,
		"a partial-day absence must start and end on the same date",
		http.StatusBadRequest,
	)
	ErrAbsenceOverlap = apperror.New(
		apperror.CodeConflict,
		"absence already exists in overlapping period",
		http.StatusConflict,
	)
	ErrAbsenceNotFound = apperror.New(
		apperror.CodeNotFound,
		"absence not found",
		http.StatusNotFound,
	)
	ErrForeignEmployee = apperror.New(
		apperror.CodeForbidden,
		"employees can only file absences for themselves",
		http.StatusForbidden,
	)
	ErrNotDeletable = apperror.New(
		apperror.CodeInvalidState,
		"only absences still pending supervisor approval can be deleted",
		http.StatusConflict,
	)
)
