package leave

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=vacation sick emergency maternity paternity bereavement"`
	FromDate   string `json:"from_date" binding:"required"`
	ToDate     string `json:"to_date" binding:"required"`
	Reason     string `json:"reason" binding:"max=1000"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comments string `json:"comments" binding:"max=1000"`
}

type LeaveResponse struct {
	ID                   string  `json:"id"`
	CompanyID            string  `json:"company_id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name,omitempty"`
	LeaveType            string  `json:"leave_type"`
	FromDate             string  `json:"from_date"`
	ToDate               string  `json:"to_date"`
	Days                 string  `json:"days"`
	Reason               string  `json:"reason"`
	Status               string  `json:"status"`
	DisplayStatus        string  `json:"display_status"`
	SupervisorStatus     string  `json:"supervisor_status"`
	SupervisorID         *string `json:"supervisor_id,omitempty"`
	SupervisorApprovedBy *string `json:"supervisor_approved_by,omitempty"`
	SupervisorApprovedAt *string `json:"supervisor_approved_at,omitempty"`
	SupervisorComments   *string `json:"supervisor_comments,omitempty"`
	HRStatus             *string `json:"hr_status"`
	HRID                 *string `json:"hr_id,omitempty"`
	HRApprovedBy         *string `json:"hr_approved_by,omitempty"`
	HRApprovedAt         *string `json:"hr_approved_at,omitempty"`
	HRComments           *string `json:"hr_comments,omitempty"`
	Version              int     `json:"version"`
	CreatedBy            string  `json:"created_by"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:                   l.ID.String(),
		CompanyID:            l.CompanyID.String(),
		EmployeeID:           l.EmployeeID.String(),
		LeaveType:            l.LeaveType,
		FromDate:             l.FromDate.Format(dateLayout),
		ToDate:               l.ToDate.Format(dateLayout),
		Days:                 l.Days.String(),
		Reason:               l.Reason,
		Status:               l.Status,
		DisplayStatus:        l.DisplayStatus(),
		SupervisorStatus:     l.SupervisorStatus,
		SupervisorID:         uuidString(l.SupervisorID),
		SupervisorApprovedBy: uuidString(l.SupervisorApprovedBy),
		SupervisorApprovedAt: timeString(l.SupervisorApprovedAt),
		SupervisorComments:   l.SupervisorComments,
		HRStatus:             l.HRStatus,
		HRID:                 uuidString(l.HRID),
		HRApprovedBy:         uuidString(l.HRApprovedBy),
		HRApprovedAt:         timeString(l.HRApprovedAt),
		HRComments:           l.HRComments,
		Version:              l.Version,
		CreatedBy:            l.CreatedBy.String(),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func uuidString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func timeString(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.Format(time.RFC3339)
	return &s
}
