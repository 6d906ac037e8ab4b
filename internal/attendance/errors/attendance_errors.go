package attendanceerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"already clocked in for today",
		http.StatusConflict,
	)
	ErrNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"clock in not found for today",
		http.StatusConflict,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"already clocked out for today",
		http.StatusConflict,
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
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"time_in and time_out must be RFC3339 and time_out must not precede time_in",
		http.StatusBadRequest,
	)
)
