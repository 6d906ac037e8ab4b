package middleware

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
	ErrTooManyRequests = apperror.New(
		"TOO_MANY_REQUESTS",
		"Too many requests",
		http.StatusTooManyRequests,
	)
	ErrRequestInProgress = apperror.New(
		"PROCESSING",
		"An identical request is still being processed",
		http.StatusConflict,
	)
)

func abort(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message, nil)
}
