package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单表（购物车结算快照）
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderNo   string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"`
	FirstName string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(50)" json:"last_name"`
	Email     string    `gorm:"type:varchar(254);index;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Company   string    `gorm:"type:varchar(100)" json:"company"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Status    string    `gorm:"type:varchar(20);index;not null;default:'new'" json:"status"`
	Paid      bool      `gorm:"not null;default:false;index" json:"paid"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionID string    `gorm:"type:varchar(64);index" json:"-"`
	ClientIP  string    `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	Locale    string    `gorm:"type:varchar(10)" json:"locale"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// FullName 联系人姓名
func (o *Order) FullName() string {
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// TotalCost 订单固定价部分总额
func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Cost())
	}
	return total
}
