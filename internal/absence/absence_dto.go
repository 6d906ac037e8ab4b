package absence

import (
	"time"

	"github.com/google/uuid"
)

type CreateAbsenceRequest struct {
	EmployeeID   string `json:"employee_id" binding:"omitempty,uuid"`
	FromDate     string `json:"from_date" binding:"required"`
	ToDate       string `json:"to_date" binding:"required"`
	IsPartialDay bool   `json:"is_partial_day"`
	Reason       string `json:"reason" binding:"max=1000"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comments string `json:"comments" binding:"max=1000"`
}

type AbsenceResponse struct {
	ID                   string  `json:"id"`
	CompanyID            string  `json:"company_id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name,omitempty"`
	FromDate             string  `json:"from_date"`
	ToDate               string  `json:"to_date"`
	IsPartialDay         bool    `json:"is_partial_day"`
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

func mapToResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:                   a.ID.String(),
		CompanyID:            a.CompanyID.String(),
		EmployeeID:           a.EmployeeID.String(),
		FromDate:             a.FromDate.Format(dateLayout),
		ToDate:               a.ToDate.Format(dateLayout),
		IsPartialDay:         a.IsPartialDay,
		Days:                 a.Days.String(),
		Reason:               a.Reason,
		Status:               a.Status,
		DisplayStatus:        a.DisplayStatus(),
		SupervisorStatus:     a.SupervisorStatus,
		SupervisorID:         uuidString(a.SupervisorID),
		SupervisorApprovedBy: uuidString(a.SupervisorApprovedBy),
		SupervisorApprovedAt: timeString(a.SupervisorApprovedAt),
		SupervisorComments:   a.SupervisorComments,
		HRStatus:             a.HRStatus,
		HRID:                 uuidString(a.HRID),
		HRApprovedBy:         uuidString(a.HRApprovedBy),
		HRApprovedAt:         timeString(a.HRApprovedAt),
		HRComments:           a.HRComments,
		Version:              a.Version,
		CreatedBy:            a.CreatedBy.String(),
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	return resp
}

func mapToListResponse(absences []Absence) []AbsenceResponse {
	resp := make([]AbsenceResponse, len(absences))
	for i, a := range absences {
		resp[i] = mapToResponse(a)
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
