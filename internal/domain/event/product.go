package event

import "furniture/admin/internal/domain"

const ProductEventType = "ProductEvent"

type ProductEvent struct {
	Mutation
	Status      domain.ProductStatus `json:"status,omitempty"`
	CategoryIDs []domain.ID          `json:"category_ids,omitempty"`
}

func (e *ProductEvent) EventType() string {
	return ProductEventType
}

func (e *ProductEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
