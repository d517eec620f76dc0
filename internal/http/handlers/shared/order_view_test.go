package shared

import (
	"testing"

	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderViewTotalsAndFinalFlag(t *testing.T) {
	order := &models.Order{
		OrderNo: "DP1",
		Status:  constants.OrderStatusNew,
		Items: []models.OrderItem{
			{PriceType: constants.PriceTypeFixed, Price: models.NewMoneyFromInt(1500), Currency: constants.CurrencyRUB, Quantity: 2},
			{PriceType: constants.PriceTypeNegotiable, Currency: constants.CurrencyRUB, Quantity: 1},
		},
	}
	view := BuildOrderView(order, "en")
	if !view.TotalCost.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("total want 3000 got %s", view.TotalCost)
	}
	if len(view.Items) != 2 || view.Order.Items != nil {
		t.Fatalf("items should move to the view: %d", len(view.Items))
	}
	if view.IsFinal {
		t.Fatalf("new order is not final")
	}

	order.Status = constants.OrderStatusCancelled
	if !BuildOrderView(order, "en").IsFinal {
		t.Fatalf("cancelled order should be final")
	}
}
