package cart

import (
	"errors"
	"fmt"

	"github.com/dpit-cms/internal/catalog"
)

var (
	ErrItemUnavailable  = errors.New("item unavailable for order")
	ErrItemRequired     = errors.New("cart item required")
	ErrResolverRequired = errors.New("cart catalog resolver required")
)

// UnavailableItemError 目录项不存在或不可下单
type UnavailableItemError struct {
	ItemType string
	ItemID   uint
}

func (e *UnavailableItemError) Error() string {
	return fmt.Sprintf("%s #%d is not available for order", e.ItemType, e.ItemID)
}

// Unwrap 支持 errors.Is(err, ErrItemUnavailable)
func (e *UnavailableItemError) Unwrap() error {
	return ErrItemUnavailable
}

// EnsureAvailable 校验目录项存在且允许下单
func EnsureAvailable(item catalog.Item, itemType string, itemID uint) error {
	if item == nil || !item.AvailableForOrder() {
		return &UnavailableItemError{ItemType: itemType, ItemID: itemID}
	}
	return nil
}
