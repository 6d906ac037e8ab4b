// Package events defines the typed approval events fanned out to the
// notification feeds. Every event has exactly one payload schema, selected by
// the event_type discriminator of its Envelope.
package events

import (
	"context"
	"time"
)

const ApprovalTopic = "hr.approval.events.v1"

type Name string

const (
	NameLeaveRequested            Name = "leave.requested"
	NameAbsenceRequested          Name = "absence.requested"
	NameAbsenceSupervisorApproved Name = "absence.supervisor_approved"
	NameAbsenceHRApproved         Name = "absence.hr_approved"
	NameRequestStatusUpdated      Name = "request.status_updated"
)

const ChannelAdmin = "admin"

func SupervisorChannel(id string) string {
	return "supervisor:" + id
}

func HRChannel(id string) string {
	return "hr:" + id
}

type Event interface {
	EventName() Name
	AggregateID() string
	AggregateType() string
	TenantID() string
	// Audiences lists the feed channels the event is delivered to.
	Audiences() []string
}

// Publisher delivers events best-effort. Callers log failures and never
// roll back the state change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

// RequestRef carries the identity fields shared by every request event.
type RequestRef struct {
	RequestID      string    `json:"request_id"`
	RequestKind    string    `json:"request_kind"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	EmployeeNumber string    `json:"employee_number"`
	SupervisorID   *string   `json:"supervisor_id,omitempty"`
	HRID           *string   `json:"hr_id,omitempty"`
	FromDate       string    `json:"from_date"`
	ToDate         string    `json:"to_date"`
	Days           string    `json:"days"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (r RequestRef) AggregateID() string   { return r.RequestID }
func (r RequestRef) AggregateType() string { return r.RequestKind }
func (r RequestRef) TenantID() string      { return r.CompanyID }

func (r RequestRef) Audiences() []string {
	out := []string{ChannelAdmin}
	if r.SupervisorID != nil && *r.SupervisorID != "" {
		out = append(out, SupervisorChannel(*r.SupervisorID))
	}
	if r.HRID != nil && *r.HRID != "" {
		out = append(out, HRChannel(*r.HRID))
	}
	return out
}

type LeaveRequested struct {
	RequestRef
	LeaveType     string `json:"leave_type"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
}

func (LeaveRequested) EventName() Name { return NameLeaveRequested }

type AbsenceRequested struct {
	RequestRef
	Reason        string `json:"reason"`
	IsPartialDay  bool   `json:"is_partial_day"`
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
}

func (AbsenceRequested) EventName() Name { return NameAbsenceRequested }

type AbsenceSupervisorApproved struct {
	RequestRef
	SupervisorStatus string    `json:"supervisor_status"`
	HRStatus         string    `json:"hr_status"`
	DisplayStatus    string    `json:"display_status"`
	ApprovedBy       string    `json:"approved_by"`
	ApprovedAt       time.Time `json:"approved_at"`
	Comments         *string   `json:"comments,omitempty"`
}

func (AbsenceSupervisorApproved) EventName() Name { return NameAbsenceSupervisorApproved }

type AbsenceHRApproved struct {
	RequestRef
	HRStatus      string    `json:"hr_status"`
	DisplayStatus string    `json:"display_status"`
	ApprovedBy    string    `json:"approved_by"`
	ApprovedAt    time.Time `json:"approved_at"`
	Comments      *string   `json:"comments,omitempty"`
	Override      bool      `json:"override"`
}

func (AbsenceHRApproved) EventName() Name { return NameAbsenceHRApproved }

// RequestStatusUpdated covers every other transition: leave decisions and
// absence rejections.
type RequestStatusUpdated struct {
	RequestRef
	Stage                 string    `json:"stage"`
	Decision              string    `json:"decision"`
	Status                string    `json:"status"`
	SupervisorStatus      string    `json:"supervisor_status"`
	HRStatus              *string   `json:"hr_status"`
	DisplayStatus         string    `json:"display_status"`
	PreviousDisplayStatus string    `json:"previous_display_status"`
	ActedBy               string    `json:"acted_by"`
	ActedAt               time.Time `json:"acted_at"`
	Comments              *string   `json:"comments,omitempty"`
	CreditEffect          string    `json:"credit_effect"`
	Override              bool      `json:"override"`
}

func (RequestStatusUpdated) EventName() Name { return NameRequestStatusUpdated }
