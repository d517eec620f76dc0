package models

import (
	"time"

	"github.com/dpit-cms/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Portfolio 作品集表（部分作品可按原样下单）
type Portfolio struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	Title               string         `gorm:"type:varchar(200);not null" json:"title"`
	Slug                string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description         string         `gorm:"type:text" json:"description"`
	ProjectURL          string         `gorm:"type:varchar(500)" json:"project_url"`
	IsAvailableForOrder bool           `gorm:"not null;default:false" json:"is_available_for_order"`
	Price               *Money         `gorm:"type:decimal(12,2)" json:"price"`
	Currency            string         `gorm:"type:varchar(10);not null;default:'RUB'" json:"currency"`
	IsActive            bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Portfolio) TableName() string {
	return "portfolio"
}

// ItemID 目录项 ID
func (p *Portfolio) ItemID() uint { return p.ID }

// ItemTitle 目录项标题
func (p *Portfolio) ItemTitle() string { return p.Title }

// AvailableForOrder 仅上架且标记可下单的作品允许加入购物车
func (p *Portfolio) AvailableForOrder() bool { return p.IsActive && p.IsAvailableForOrder }

// Pricing 有价格的作品按固定价，否则按协商价
func (p *Portfolio) Pricing() Pricing {
	pricing := Pricing{
		Type:     constants.PriceTypeNegotiable,
		Fixed:    decimal.Zero,
		Min:      decimal.Zero,
		Max:      decimal.Zero,
		Currency: NormalizeCurrency(p.Currency),
	}
	if p.Price != nil && p.Price.GreaterThan(decimal.Zero) {
		pricing.Type = constants.PriceTypeFixed
		pricing.Fixed = p.Price.Decimal
	}
	return pricing
}
