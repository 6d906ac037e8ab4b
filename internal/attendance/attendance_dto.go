package attendance

import "time"

type ClockInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Session   string   `json:"session" binding:"omitempty,max=20"`
	Notes     *string  `json:"notes"`
}

type ClockOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	BreakTime *int     `json:"break_time" binding:"omitempty,min=0,max=600"`
	Notes     *string  `json:"notes"`
}

// RecordAttendanceRequest captures or corrects a full day on behalf of an employee.
type RecordAttendanceRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required,uuid"`
	AttendanceDate string  `json:"attendance_date" binding:"required"`
	TimeIn         *string `json:"time_in"`
	TimeOut        *string `json:"time_out"`
	BreakTime      int     `json:"break_time" binding:"min=0,max=600"`
	Status         string  `json:"status" binding:"required,oneof=Present Late Absent"`
	Session        string  `json:"session" binding:"omitempty,max=20"`
	Notes          *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name,omitempty"`
	AttendanceDate string   `json:"attendance_date"`
	TimeIn         *string  `json:"time_in,omitempty"`
	TimeOut        *string  `json:"time_out,omitempty"`
	BreakTime      int      `json:"break_time"`
	Status         string   `json:"status"`
	Session        string   `json:"session"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Source         string   `json:"source"`
	Notes          *string  `json:"notes,omitempty"`
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format(dateLayout),
		TimeIn:         formatTime(a.TimeIn),
		TimeOut:        formatTime(a.TimeOut),
		BreakTime:      a.BreakTime,
		Status:         a.Status,
		Session:        a.Session,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
