package notification

import (
	"encoding/json"
	"time"
)

type NotificationResponse struct {
	ID            string          `json:"id"`
	Channel       string          `json:"channel"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Title         string          `json:"title"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    string          `json:"occurred_at"`
	ReadAt        *string         `json:"read_at,omitempty"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID.String(),
		Channel:       n.Channel,
		EventType:     n.EventType,
		AggregateType: n.AggregateType,
		AggregateID:   n.AggregateID,
		Title:         n.Title,
		Payload:       json.RawMessage(n.Payload),
		OccurredAt:    n.OccurredAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func mapToListResponse(items []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp
}
