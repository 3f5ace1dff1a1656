package event

import (
	"encoding/json"
	"time"

	"furniture/admin/internal/domain"

	"github.com/google/uuid"
)

type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionStatus Action = "status"
)

// Mutation is the part every audit event shares
type Mutation struct {
	EventID    string    `json:"event_id"`
	Action     Action    `json:"action"`
	EntityID   domain.ID `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	Actor      string    `json:"actor"` // phone of the logged in admin
	OccurredAt time.Time `json:"occurred_at"`
}

func NewMutation(action Action, id domain.ID, name, actor string) Mutation {
	return Mutation{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityID:   id,
		EntityName: name,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// DefaultEventValue provides a common implementation for EventValue
func DefaultEventValue(e interface{}) ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalEvent[T Event](data []byte) (T, error) {
	var e T
	err := json.Unmarshal(data, &e)
	return e, err
}

// Types lists every stream the audit workers consume
var Types = []string{
	CategoryEventType,
	ProductEventType,
	UserEventType,
}
