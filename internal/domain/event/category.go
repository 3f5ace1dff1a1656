package event

import "furniture/admin/internal/domain"

const CategoryEventType = "CategoryEvent"

type CategoryEvent struct {
	Mutation
	ParentID        *domain.ID `json:"parent_id,omitempty"`
	DeletedChildren bool       `json:"deleted_children,omitempty"` // cascade delete was confirmed
}

func (e *CategoryEvent) EventType() string {
	return CategoryEventType
}

func (e *CategoryEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
