package approval

import (
	"errors"

	approvalerrors "hris-payroll/internal/approval/errors"
	"hris-payroll/internal/shared/apperror"

	"github.com/google/uuid"
)

// ActionActUnassigned lets a role decide a stage assigned to somebody else.
const ActionActUnassigned = "act_unassigned"

// Authorizer is the policy table consulted before every transition.
// rbac.Service satisfies it.
type Authorizer interface {
	Can(role, resource, action string) (bool, error)
}

type Machine struct {
	policy Authorizer
}

func NewMachine(policy Authorizer) *Machine {
	return &Machine{policy: policy}
}

// Apply validates act against rec and, on success, mutates rec in place.
// On any error rec is left untouched.
func (m *Machine) Apply(rec *Record, act Action) (Outcome, error) {
	if _, err := ParseStage(string(act.Stage)); err != nil {
		return Outcome{}, err
	}
	if _, err := ParseDecision(string(act.Decision)); err != nil {
		return Outcome{}, err
	}

	if err := m.authorize(*rec, act); err != nil {
		return Outcome{}, err
	}

	next := *rec
	out := Outcome{From: rec.DisplayStatus()}

	var err error
	switch act.Stage {
	case StageSupervisor:
		err = applySupervisor(&next, act)
	case StageHR:
		out.Credit, out.Override, err = m.applyHR(&next, act)
	}
	if err != nil {
		return Outcome{}, err
	}

	next.Status = next.AggregateStatus()
	*rec = next
	out.To = rec.DisplayStatus()
	return out, nil
}

func (m *Machine) authorize(rec Record, act Action) error {
	allowed, err := m.policy.Can(act.Actor.Role, act.resource(), ActionDecide)
	if err != nil {
		return err
	}
	if !allowed {
		return approvalerrors.ErrNotAuthorized
	}

	assignee := rec.SupervisorID
	if act.Stage == StageHR {
		assignee = rec.HRID
	}
	if assignee == nil || *assignee == act.Actor.ID {
		return nil
	}

	unassigned, err := m.policy.Can(act.Actor.Role, act.resource(), ActionActUnassigned)
	if err != nil {
		return err
	}
	if !unassigned {
		return approvalerrors.ErrNotAssignedApprover
	}
	return nil
}

func applySupervisor(rec *Record, act Action) error {
	if rec.SupervisorStatus != StatusPending {
		return approvalerrors.ErrStageAlreadyDecided
	}

	switch act.Decision {
	case Approve:
		rec.SupervisorStatus = StatusApproved
		rec.HRStatus = strPtr(StatusPending)
	case Reject:
		rec.SupervisorStatus = StatusRejected
	}

	rec.SupervisorApprovedBy = uuidPtr(act.Actor.ID)
	rec.SupervisorApprovedAt = &act.At
	rec.SupervisorComments = optionalStr(act.Comments)
	return nil
}

func (m *Machine) applyHR(rec *Record, act Action) (CreditEffect, bool, error) {
	override := false
	switch rec.SupervisorStatus {
	case StatusPending:
		return CreditNone, false, approvalerrors.ErrAwaitingSupervisor
	case StatusRejected:
		ok, err := m.policy.Can(act.Actor.Role, act.resource(), ActionOverride)
		if err != nil {
			return CreditNone, false, err
		}
		if !ok {
			return CreditNone, false, approvalerrors.ErrRejectedBySupervisor
		}
		override = true
	}

	effect := CreditNone
	switch rec.hrStatus() {
	case "", StatusPending:
		if act.Decision == Approve {
			rec.HRStatus = strPtr(StatusApproved)
			if !rec.CreditsApplied {
				rec.CreditsApplied = true
				effect = CreditUse
			}
		} else {
			rec.HRStatus = strPtr(StatusRejected)
		}
	case StatusApproved:
		if act.Decision == Approve {
			return CreditNone, false, approvalerrors.ErrStageAlreadyDecided
		}
		rec.HRStatus = strPtr(StatusRejected)
		if rec.CreditsApplied {
			rec.CreditsApplied = false
			effect = CreditRefund
		}
	default:
		return CreditNone, false, approvalerrors.ErrStageAlreadyDecided
	}

	rec.HRApprovedBy = uuidPtr(act.Actor.ID)
	rec.HRApprovedAt = &act.At
	rec.HRComments = optionalStr(act.Comments)
	return effect, override, nil
}

// IsInvalidTransition reports any out-of-turn or unauthorized approval attempt.
func IsInvalidTransition(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeInvalidTransition
}

func strPtr(v string) *string {
	return &v
}

func uuidPtr(v uuid.UUID) *uuid.UUID {
	return &v
}

func optionalStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
