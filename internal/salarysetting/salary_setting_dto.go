package salarysetting

type CreateSalarySettingRequest struct {
	EmployeeID             string `json:"employee_id" binding:"required,uuid"`
	RateType               string `json:"rate_type" binding:"required,oneof=daily monthly hourly"`
	Rate                   string `json:"rate" binding:"required,numeric"`
	Cola                   string `json:"cola" binding:"omitempty,numeric"`
	Allowance              string `json:"allowance" binding:"omitempty,numeric"`
	HazardPay              string `json:"hazard_pay" binding:"omitempty,numeric"`
	OvertimeRateMultiplier string `json:"overtime_rate_multiplier" binding:"omitempty,numeric"`
	NightPremiumRate       string `json:"night_premium_rate" binding:"omitempty,numeric"`
	EffectiveDate          string `json:"effective_date" binding:"required"`
}

type SalarySettingResponse struct {
	ID                     string `json:"id"`
	EmployeeID             string `json:"employee_id"`
	EmployeeName           string `json:"employee_name,omitempty"`
	RateType               string `json:"rate_type"`
	Rate                   string `json:"rate"`
	Cola                   string `json:"cola"`
	Allowance              string `json:"allowance"`
	HazardPay              string `json:"hazard_pay"`
	OvertimeRateMultiplier string `json:"overtime_rate_multiplier"`
	NightPremiumRate       string `json:"night_premium_rate"`
	EffectiveDate          string `json:"effective_date"`
	IsActive               bool   `json:"is_active"`
}

func mapToResponse(s SalarySetting) SalarySettingResponse {
	resp := SalarySettingResponse{
		ID:                     s.ID.String(),
		EmployeeID:             s.EmployeeID.String(),
		RateType:               string(s.RateType),
		Rate:                   s.Rate.StringFixed(2),
		Cola:                   s.Cola.StringFixed(2),
		Allowance:              s.Allowance.StringFixed(2),
		HazardPay:              s.HazardPay.StringFixed(2),
		OvertimeRateMultiplier: s.OvertimeRateMultiplier.StringFixed(2),
		NightPremiumRate:       s.NightPremiumRate.StringFixed(2),
		EffectiveDate:          s.EffectiveDate.Format(dateLayout),
		IsActive:               s.IsActive,
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.FullName
	}
	return resp
}

func mapToListResponse(settings []SalarySetting) []SalarySettingResponse {
	res := make([]SalarySettingResponse, len(settings))
	for i, s := range settings {
		res[i] = mapToResponse(s)
	}
	return res
}
