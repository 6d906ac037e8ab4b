package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Envelope struct {
	EventType  Name            `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func Encode(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	env := Envelope{
		EventType:  e.EventName(),
		OccurredAt: occurredAt(e),
		Payload:    payload,
	}
	return json.Marshal(env)
}

// Decode parses an envelope into its concrete event. Unknown event types and
// payload fields outside the event's schema are rejected.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var target Event
	switch env.EventType {
	case NameLeaveRequested:
		target = &LeaveRequested{}
	case NameAbsenceRequested:
		target = &AbsenceRequested{}
	case NameAbsenceSupervisorApproved:
		target = &AbsenceSupervisorApproved{}
	case NameAbsenceHRApproved:
		target = &AbsenceHRApproved{}
	case NameRequestStatusUpdated:
		target = &RequestStatusUpdated{}
	default:
		return nil, fmt.Errorf("unknown event type %q", env.EventType)
	}

	dec := json.NewDecoder(bytes.NewReader(env.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.EventType, err)
	}
	return deref(target), nil
}

func deref(e Event) Event {
	switch v := e.(type) {
	case *LeaveRequested:
		return *v
	case *AbsenceRequested:
		return *v
	case *AbsenceSupervisorApproved:
		return *v
	case *AbsenceHRApproved:
		return *v
	case *RequestStatusUpdated:
		return *v
	default:
		return e
	}
}

func occurredAt(e Event) time.Time {
	type stamped interface{ stamp() time.Time }
	if s, ok := e.(stamped); ok && !s.stamp().IsZero() {
		return s.stamp()
	}
	return time.Now().UTC()
}

func (r RequestRef) stamp() time.Time { return r.OccurredAt }
