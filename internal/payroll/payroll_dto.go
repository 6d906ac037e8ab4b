package payroll

import "time"

type CalculatePayrollRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	PeriodStart  string `json:"period_start" binding:"required"`
	PeriodEnd    string `json:"period_end" binding:"required"`
	CutoffPeriod string `json:"cutoff_period" binding:"required,oneof=1st 2nd 3rd"`
}

type EarningResponse struct {
	Type     string  `json:"type"`
	Amount   string  `json:"amount"`
	Quantity *string `json:"quantity,omitempty"`
}

type DeductionResponse struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

type DetailResponse struct {
	Type   string `json:"type"`
	Hours  string `json:"hours"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

type AttendanceDeductionResponse struct {
	AbsentDays         string `json:"absent_days"`
	AbsentDeduction    string `json:"absent_deduction"`
	LateHours          string `json:"late_hours"`
	LateDeduction      string `json:"late_deduction"`
	UndertimeHours     string `json:"undertime_hours"`
	UndertimeDeduction string `json:"undertime_deduction"`
}

type PayrollResponse struct {
	ID                       string  `json:"id"`
	CompanyID                string  `json:"company_id"`
	EmployeeID               string  `json:"employee_id"`
	EmployeeName             string  `json:"employee_name,omitempty"`
	PayrollDate              string  `json:"payroll_date"`
	CutoffPeriod             string  `json:"cutoff_period"`
	PeriodStart              string  `json:"period_start"`
	PeriodEnd                string  `json:"period_end"`
	DaysWorked               int     `json:"days_worked"`
	GrossPay                 string  `json:"gross_pay"`
	AttendanceDeductionTotal string  `json:"attendance_deduction_total"`
	NetBasic                 string  `json:"net_basic"`
	TotalDeductions          string  `json:"total_deductions"`
	NetPay                   string  `json:"net_pay"`
	CalculatedAt             *string `json:"calculated_at,omitempty"`

	Earnings            []EarningResponse            `json:"earnings,omitempty"`
	Deductions          []DeductionResponse          `json:"deductions,omitempty"`
	Details             []DetailResponse             `json:"details,omitempty"`
	AttendanceDeduction *AttendanceDeductionResponse `json:"attendance_deduction,omitempty"`
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                       p.ID.String(),
		CompanyID:                p.CompanyID.String(),
		EmployeeID:               p.EmployeeID.String(),
		PayrollDate:              p.PayrollDate.Format(dateLayout),
		CutoffPeriod:             p.CutoffPeriod,
		PeriodStart:              p.PeriodStart.Format(dateLayout),
		PeriodEnd:                p.PeriodEnd.Format(dateLayout),
		DaysWorked:               p.DaysWorked,
		GrossPay:                 p.GrossPay.StringFixed(2),
		AttendanceDeductionTotal: p.AttendanceDeductionTotal.StringFixed(2),
		NetBasic:                 p.NetBasic.StringFixed(2),
		TotalDeductions:          p.TotalDeductions.StringFixed(2),
		NetPay:                   p.NetPay.StringFixed(2),
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.CalculatedAt != nil {
		v := p.CalculatedAt.Format(time.RFC3339)
		resp.CalculatedAt = &v
	}

	for _, e := range p.Earnings {
		er := EarningResponse{Type: e.Type, Amount: e.Amount.StringFixed(2)}
		if e.Quantity != nil {
			q := e.Quantity.String()
			er.Quantity = &q
		}
		resp.Earnings = append(resp.Earnings, er)
	}
	for _, d := range p.Deductions {
		resp.Deductions = append(resp.Deductions, DeductionResponse{Type: d.Type, Amount: d.Amount.StringFixed(2)})
	}
	for _, d := range p.Details {
		resp.Details = append(resp.Details, DetailResponse{
			Type:   d.Type,
			Hours:  d.Hours.String(),
			Rate:   d.Rate.StringFixed(2),
			Amount: d.Amount.StringFixed(2),
		})
	}
	if a := p.AttendanceDeduction; a != nil {
		resp.AttendanceDeduction = &AttendanceDeductionResponse{
			AbsentDays:         a.AbsentDays.String(),
			AbsentDeduction:    a.AbsentDeduction.StringFixed(2),
			LateHours:          a.LateHours.String(),
			LateDeduction:      a.LateDeduction.StringFixed(2),
			UndertimeHours:     a.UndertimeHours.String(),
			UndertimeDeduction: a.UndertimeDeduction.StringFixed(2),
		}
	}
	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}
