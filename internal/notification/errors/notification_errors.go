package notificationerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id in event",
		http.StatusBadRequest,
	)
)
