package cart

import (
	"strings"

	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"

	"github.com/shopspring/decimal"
)

// NegotiableLabel 协商价展示文案
const NegotiableLabel = "По договоренности"

var currencySymbols = map[string]string{
	constants.CurrencyRUB: "₽",
	constants.CurrencyUSD: "$",
	constants.CurrencyEUR: "€",
	constants.CurrencyKZT: "₸",
}

// CurrencySymbol 币种符号，未知币种原样返回
func CurrencySymbol(code string) string {
	code = models.NormalizeCurrency(code)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

// FormatAmount 千分位用空格分隔，整数金额不带小数
func FormatAmount(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	intPart := amount.Truncate(0).String()
	fraction := ""
	if !amount.Equal(amount.Truncate(0)) {
		fixed := amount.StringFixed(2)
		if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
			intPart = fixed[:idx]
			fraction = fixed[idx:]
		}
	}
	return sign + groupThousands(intPart) + fraction
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPrice 金额加币种符号
func FormatPrice(amount decimal.Decimal, currency string) string {
	return FormatAmount(amount) + " " + CurrencySymbol(currency)
}

// FormatRange 区间价展示
func FormatRange(min, max decimal.Decimal, currency string) string {
	return "от " + FormatAmount(min) + " до " + FormatAmount(max) + " " + CurrencySymbol(currency)
}

// DisplayPricing 按价格模式展示单价
func DisplayPricing(p models.Pricing) string {
	return DisplayPrice(p.Type, p.Fixed, p.Min, p.Max, p.Currency)
}

// DisplayPrice 按价格模式展示单价
func DisplayPrice(priceType string, fixed, min, max decimal.Decimal, currency string) string {
	switch priceType {
	case constants.PriceTypeFixed:
		return FormatPrice(fixed, currency)
	case constants.PriceTypeRange:
		return FormatRange(min, max, currency)
	default:
		return NegotiableLabel
	}
}

// DisplayTotal 按数量展示小计，区间价按数量放大上下限
func DisplayTotal(priceType string, fixed, min, max decimal.Decimal, currency string, quantity int) string {
	q := decimal.NewFromInt(int64(quantity))
	return DisplayPrice(priceType, fixed.Mul(q), min.Mul(q), max.Mul(q), currency)
}
