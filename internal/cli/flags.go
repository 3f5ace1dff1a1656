package cli

import (
	"errors"
	"fmt"
	"strings"

	"furniture/admin/internal/domain"
)

// stockValue is a pflag.Value limited to the known stock statuses
type stockValue struct {
	target *domain.StockStatus
}

func newStockValue(target *domain.StockStatus) *stockValue {
	return &stockValue{target: target}
}

func (v *stockValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *stockValue) Set(s string) error {
	for _, status := range domain.StockStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			*v.target = status
			return nil
		}
	}
	return fmt.Errorf("must be one of %q", domain.StockStatuses)
}

func (v *stockValue) Type() string {
	return "stock"
}

type statusValue struct {
	target *domain.ProductStatus
}

func newStatusValue(target *domain.ProductStatus) *statusValue {
	return &statusValue{target: target}
}

func (v *statusValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *statusValue) Set(s string) error {
	switch status := domain.ProductStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case domain.ProductStatusActive, domain.ProductStatusInactive:
		*v.target = status
		return nil
	default:
		return errors.New("must be active or inactive")
	}
}

func (v *statusValue) Type() string {
	return "status"
}
