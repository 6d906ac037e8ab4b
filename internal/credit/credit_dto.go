package credit

type CreditResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	Kind             string `json:"kind"`
	Year             int    `json:"year"`
	TotalCredits     string `json:"total_credits"`
	UsedCredits      string `json:"used_credits"`
	RemainingCredits string `json:"remaining_credits"`
	IsActive         bool   `json:"is_active"`
}

type RolloverResult struct {
	Year        int   `json:"year"`
	Deactivated int64 `json:"deactivated"`
	Created     int64 `json:"created"`
}

func mapToResponse(c Credit) CreditResponse {
	return CreditResponse{
		ID:               c.ID.String(),
		EmployeeID:       c.EmployeeID.String(),
		Kind:             string(c.Kind),
		Year:             c.Year,
		TotalCredits:     c.TotalCredits.StringFixed(2),
		UsedCredits:      c.UsedCredits.StringFixed(2),
		RemainingCredits: c.RemainingCredits.StringFixed(2),
		IsActive:         c.IsActive,
	}
}
