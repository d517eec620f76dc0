package models

import (
	"errors"
	"time"

	"github.com/dpit-cms/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrServicePriceTypeInvalid   = errors.New("service price type invalid")
	ErrServiceFixedPriceRequired = errors.New("fixed price required")
	ErrServiceRangeRequired      = errors.New("range price requires both bounds")
	ErrServiceRangeOrder         = errors.New("range max must be greater than min")
)

// Service 服务目录表
type Service struct {
	ID                    uint           `gorm:"primarykey" json:"id"`
	Title                 string         `gorm:"type:varchar(200);not null" json:"title"`
	Slug                  string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	ShortDescription      string         `gorm:"type:text" json:"short_description"`
	Description           string         `gorm:"type:text" json:"description"`
	TechnicalRequirements StringArray    `gorm:"type:json" json:"technical_requirements"`
	PriceType             string         `gorm:"type:varchar(20);not null;default:'fixed'" json:"price_type"`
	PriceFixed            Money          `gorm:"type:decimal(12,2);not null;default:0" json:"price_fixed"`
	PriceMin              Money          `gorm:"type:decimal(12,2);not null;default:0" json:"price_min"`
	PriceMax              Money          `gorm:"type:decimal(12,2);not null;default:0" json:"price_max"`
	Currency              string         `gorm:"type:varchar(10);not null;default:'RUB'" json:"currency"`
	SortOrder             int            `gorm:"not null;default:0;index" json:"sort_order"`
	IsPopular             bool           `gorm:"not null;default:false;index" json:"is_popular"`
	EstimatedTime         string         `gorm:"type:varchar(100)" json:"estimated_time"`
	IsActive              bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Service) TableName() string {
	return "services"
}

// ItemID 目录项 ID
func (s *Service) ItemID() uint { return s.ID }

// ItemTitle 目录项标题
func (s *Service) ItemTitle() string { return s.Title }

// AvailableForOrder 上架的服务均可下单
func (s *Service) AvailableForOrder() bool { return s.IsActive }

// Pricing 返回当前价格信息
func (s *Service) Pricing() Pricing {
	p := Pricing{
		Type:     NormalizePriceType(s.PriceType),
		Currency: NormalizeCurrency(s.Currency),
		Fixed:    decimal.Zero,
		Min:      decimal.Zero,
		Max:      decimal.Zero,
	}
	switch p.Type {
	case constants.PriceTypeFixed:
		p.Fixed = s.PriceFixed.Decimal
	case constants.PriceTypeRange:
		p.Min = s.PriceMin.Decimal
		p.Max = s.PriceMax.Decimal
	case "":
		p.Type = constants.PriceTypeNegotiable
	}
	return p
}

// Validate 校验价格字段并清理与价格类型无关的值
func (s *Service) Validate() error {
	s.PriceType = NormalizePriceType(s.PriceType)
	switch s.PriceType {
	case constants.PriceTypeFixed:
		if !s.PriceFixed.GreaterThan(decimal.Zero) {
			return ErrServiceFixedPriceRequired
		}
	case constants.PriceTypeRange:
		if !s.PriceMin.GreaterThan(decimal.Zero) || !s.PriceMax.GreaterThan(decimal.Zero) {
			return ErrServiceRangeRequired
		}
		if !s.PriceMax.GreaterThan(s.PriceMin.Decimal) {
			return ErrServiceRangeOrder
		}
	case constants.PriceTypeNegotiable:
	default:
		return ErrServicePriceTypeInvalid
	}
	if s.PriceType != constants.PriceTypeFixed {
		s.PriceFixed = NewMoneyFromDecimal(decimal.Zero)
	}
	if s.PriceType != constants.PriceTypeRange {
		s.PriceMin = NewMoneyFromDecimal(decimal.Zero)
		s.PriceMax = NewMoneyFromDecimal(decimal.Zero)
	}
	s.Currency = NormalizeCurrency(s.Currency)
	return nil
}
