package approvalerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidTransition,
		"approval action is not allowed in the current state",
		http.StatusConflict,
	)
	ErrAwaitingSupervisor = apperror.New(
		apperror.CodeInvalidTransition,
		"request is still waiting for the supervisor decision",
		http.StatusConflict,
	)
	ErrStageAlreadyDecided = apperror.New(
		apperror.CodeInvalidTransition,
		"this approval stage has already been decided",
		http.StatusConflict,
	)
	ErrRejectedBySupervisor = apperror.New(
		apperror.CodeInvalidTransition,
		"request was rejected by the supervisor and cannot be acted on by HR",
		http.StatusConflict,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeInvalidTransition,
		"your role cannot act on this approval stage",
		http.StatusForbidden,
	)
	ErrNotAssignedApprover = apperror.New(
		apperror.CodeInvalidTransition,
		"you are not the assigned approver for this request",
		http.StatusForbidden,
	)
	ErrInvalidStage = apperror.New(
		apperror.CodeInvalidInput,
		"stage must be supervisor or hr",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve or reject",
		http.StatusBadRequest,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConcurrencyConflict,
		"request was modified by someone else, reload and try again",
		http.StatusConflict,
	)
)
