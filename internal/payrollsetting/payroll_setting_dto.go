package payrollsetting

import "time"

type UpsertSettingRequest struct {
	Value       string `json:"value" binding:"required,max=255"`
	Type        string `json:"type" binding:"required,oneof=decimal integer boolean string"`
	Description string `json:"description" binding:"max=500"`
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

func mapToResponse(s PayrollSetting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(settings []PayrollSetting) []SettingResponse {
	res := make([]SettingResponse, len(settings))
	for i, s := range settings {
		res[i] = mapToResponse(s)
	}
	return res
}
