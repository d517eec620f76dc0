package models

import (
	"strings"

	"github.com/dpit-cms/internal/constants"

	"github.com/shopspring/decimal"
)

// Pricing 目录项的价格信息
type Pricing struct {
	Type     string          `json:"price_type"`
	Fixed    decimal.Decimal `json:"price"`
	Min      decimal.Decimal `json:"price_min"`
	Max      decimal.Decimal `json:"price_max"`
	Currency string          `json:"currency"`
}

// NormalizePriceType 归一化价格类型，contact 为历史别名
func NormalizePriceType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.PriceTypeFixed:
		return constants.PriceTypeFixed
	case constants.PriceTypeRange:
		return constants.PriceTypeRange
	case constants.PriceTypeNegotiable, "contact":
		return constants.PriceTypeNegotiable
	default:
		return ""
	}
}

// NormalizeCurrency 归一化币种，空值回退为卢布
func NormalizeCurrency(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return constants.CurrencyRUB
	}
	return code
}
