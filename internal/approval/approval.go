// Package approval implements the two-stage (supervisor then HR) approval state
// machine shared by leave and absence requests. It is pure: callers load and lock
// the row, call Machine.Apply, persist the mutated Record and act on the Outcome.
package approval

import (
	"fmt"
	"time"

	approvalerrors "hris-payroll/internal/approval/errors"

	"github.com/google/uuid"
)

type Stage string

const (
	StageSupervisor Stage = "supervisor"
	StageHR         Stage = "hr"
)

func ParseStage(v string) (Stage, error) {
	switch Stage(v) {
	case StageSupervisor, StageHR:
		return Stage(v), nil
	default:
		return "", approvalerrors.ErrInvalidStage
	}
}

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

func ParseDecision(v string) (Decision, error) {
	switch Decision(v) {
	case Approve, Reject:
		return Decision(v), nil
	default:
		return "", approvalerrors.ErrInvalidDecision
	}
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DisplayPendingSupervisor    = "Pending Supervisor Approval"
	DisplayPendingHR            = "Pending HR Approval"
	DisplayRejectedBySupervisor = "Rejected by Supervisor"
	DisplayRejectedByHR         = "Rejected by HR"
	DisplayApproved             = "Approved"
)

const (
	ActionDecide   = "decide"
	ActionOverride = "override"
)

// Record is embedded by every request entity that goes through approval.
// HRStatus is nil until the supervisor has approved (or an override opens it).
type Record struct {
	Status string `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	SupervisorStatus     string     `gorm:"column:supervisor_status;type:varchar(20);not null;default:'pending'"`
	SupervisorID         *uuid.UUID `gorm:"column:supervisor_id;type:uuid;index"`
	SupervisorApprovedBy *uuid.UUID `gorm:"column:supervisor_approved_by;type:uuid"`
	SupervisorApprovedAt *time.Time `gorm:"column:supervisor_approved_at"`
	SupervisorComments   *string    `gorm:"column:supervisor_comments;type:text"`

	HRStatus     *string    `gorm:"column:hr_status;type:varchar(20)"`
	HRID         *uuid.UUID `gorm:"column:hr_id;type:uuid;index"`
	HRApprovedBy *uuid.UUID `gorm:"column:hr_approved_by;type:uuid"`
	HRApprovedAt *time.Time `gorm:"column:hr_approved_at"`
	HRComments   *string    `gorm:"column:hr_comments;type:text"`

	CreditsApplied bool `gorm:"column:credits_applied;not null;default:false"`
	Version        int  `gorm:"column:version;not null;default:1"`
}

// NewRecord returns the initial state for a freshly submitted request.
func NewRecord(supervisorID, hrID *uuid.UUID) Record {
	return Record{
		Status:           StatusPending,
		SupervisorStatus: StatusPending,
		SupervisorID:     supervisorID,
		HRID:             hrID,
		Version:          1,
	}
}

func (r Record) hrStatus() string {
	if r.HRStatus == nil {
		return ""
	}
	return *r.HRStatus
}

// DisplayStatus projects the two sub-states onto the single label users see.
func (r Record) DisplayStatus() string {
	switch {
	case r.hrStatus() == StatusApproved:
		return DisplayApproved
	case r.hrStatus() == StatusRejected:
		return DisplayRejectedByHR
	case r.SupervisorStatus == StatusRejected:
		return DisplayRejectedBySupervisor
	case r.SupervisorStatus == StatusApproved:
		return DisplayPendingHR
	default:
		return DisplayPendingSupervisor
	}
}

// AggregateStatus derives the coarse pending/approved/rejected status.
func (r Record) AggregateStatus() string {
	switch r.DisplayStatus() {
	case DisplayApproved:
		return StatusApproved
	case DisplayRejectedByHR, DisplayRejectedBySupervisor:
		return StatusRejected
	default:
		return StatusPending
	}
}

// IsPendingSupervisor reports whether nobody has acted yet.
func (r Record) IsPendingSupervisor() bool {
	return r.SupervisorStatus == StatusPending && r.HRStatus == nil
}

type Actor struct {
	ID   uuid.UUID
	Role string
}

type Action struct {
	// Kind is the request family ("leave" or "absence") and prefixes the policy resource.
	Kind     string
	Stage    Stage
	Decision Decision
	Actor    Actor
	Comments string
	At       time.Time
}

func (a Action) resource() string {
	return fmt.Sprintf("%s.%s", a.Kind, a.Stage)
}

type CreditEffect int

const (
	CreditNone CreditEffect = iota
	CreditUse
	CreditRefund
)

func (e CreditEffect) String() string {
	switch e {
	case CreditUse:
		return "use"
	case CreditRefund:
		return "refund"
	default:
		return "none"
	}
}

type Outcome struct {
	From     string
	To       string
	Credit   CreditEffect
	Override bool
}
