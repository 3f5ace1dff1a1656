package event

import (
	"encoding/json"
	"time"

	"furniture/admin/internal/domain"
)

// Record is a persisted audit entry
type Record struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Action     Action          `json:"action"`
	EntityID   domain.ID       `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewRecord decodes the mutation part of a raw event
func NewRecord(eventType string, data []byte) (*Record, error) {
	var m Mutation
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return &Record{
		EventID:    m.EventID,
		EventType:  eventType,
		Action:     m.Action,
		EntityID:   m.EntityID,
		EntityName: m.EntityName,
		Actor:      m.Actor,
		OccurredAt: m.OccurredAt,
		Payload:    json.RawMessage(data),
	}, nil
}
