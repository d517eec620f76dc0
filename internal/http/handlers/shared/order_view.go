package shared

import (
	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/service"

	"github.com/shopspring/decimal"
)

// OrderItemView 订单项展示
type OrderItemView struct {
	models.OrderItem
	Cost         decimal.Decimal `json:"cost"`
	PriceDisplay string          `json:"price_display"`
	TotalDisplay string          `json:"total_display"`
}

// OrderView 订单回执
type OrderView struct {
	models.Order
	Items        []OrderItemView `json:"items"`
	StatusLabel  string          `json:"status_label"`
	IsFinal      bool            `json:"is_final"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalDisplay string          `json:"total_display"`
}

// BuildOrderView 订单及订单项的展示结构，金额按快照价格计算
func BuildOrderView(order *models.Order, locale string) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	currency := ""
	for i := range order.Items {
		item := &order.Items[i]
		if currency == "" && item.PriceType == constants.PriceTypeFixed {
			currency = item.Currency
		}
		items = append(items, OrderItemView{
			OrderItem:    *item,
			Cost:         item.Cost(),
			PriceDisplay: cart.DisplayPrice(item.PriceType, item.Price.Decimal, item.PriceMin.Decimal, item.PriceMax.Decimal, item.Currency),
			TotalDisplay: cart.DisplayTotal(item.PriceType, item.Price.Decimal, item.PriceMin.Decimal, item.PriceMax.Decimal, item.Currency, item.Quantity),
		})
	}
	total := order.TotalCost()
	view := OrderView{
		Order:        *order,
		Items:        items,
		StatusLabel:  i18n.T(locale, "order.status."+order.Status),
		IsFinal:      service.IsTerminalOrderStatus(order.Status),
		TotalCost:    total,
		TotalDisplay: cart.FormatPrice(total, currency),
	}
	view.Order.Items = nil
	return view
}
