package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单项表，价格为下单时快照，不随目录变化
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	ItemType  string    `gorm:"type:varchar(20);index:idx_order_item_ref;not null" json:"item_type"`
	ItemID    uint      `gorm:"index:idx_order_item_ref;not null" json:"item_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	PriceType string    `gorm:"type:varchar(20);not null" json:"price_type"`
	Price     Money     `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	PriceMin  Money     `gorm:"type:decimal(12,2);not null;default:0" json:"price_min"`
	PriceMax  Money     `gorm:"type:decimal(12,2);not null;default:0" json:"price_max"`
	Currency  string    `gorm:"type:varchar(10);not null;default:'RUB'" json:"currency"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Cost 单项金额
func (i *OrderItem) Cost() decimal.Decimal {
	return i.Price.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
