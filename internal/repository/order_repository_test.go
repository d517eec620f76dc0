package repository

import (
	"testing"

	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"

	"github.com/shopspring/decimal"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo, email string, paid bool) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:   orderNo,
		FirstName: "Ivan",
		Email:     email,
		Phone:     "+7 999 000-00-00",
		Status:    constants.OrderStatusNew,
		Paid:      paid,
	}
	items := []models.OrderItem{
		{
			ItemType:  constants.ItemTypeService,
			ItemID:    1,
			Title:     "Landing",
			PriceType: constants.PriceTypeFixed,
			Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			Currency:  constants.CurrencyRUB,
			Quantity:  2,
		},
		{
			ItemType:  constants.ItemTypeService,
			ItemID:    2,
			Title:     "Support",
			PriceType: constants.PriceTypeNegotiable,
			Currency:  constants.CurrencyRUB,
			Quantity:  1,
		},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	repo := NewOrderRepository(openRepositoryTestDB(t))
	order := createTestOrder(t, repo, "DP0001", "ivan@example.com", false)
	if order.ID == 0 {
		t.Fatalf("order id should be assigned")
	}

	got, err := repo.GetByOrderNo("DP0001")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil || len(got.Items) != 2 {
		t.Fatalf("expected order with 2 items, got %+v", got)
	}
	if got.Items[0].OrderID != order.ID {
		t.Fatalf("item should reference order")
	}
	if !got.TotalCost().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total cost want 200 got %s", got.TotalCost())
	}

	missing, err := repo.GetByOrderNo("nope")
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil got %v %v", missing, err)
	}
}

func TestOrderRepositoryListAdminFilters(t *testing.T) {
	repo := NewOrderRepository(openRepositoryTestDB(t))
	createTestOrder(t, repo, "DP0001", "a@example.com", false)
	createTestOrder(t, repo, "DP0002", "b@example.com", true)
	createTestOrder(t, repo, "DP0003", "b@example.com", false)

	paid := true
	orders, total, err := repo.ListAdmin(OrderListFilter{Paid: &paid})
	if err != nil {
		t.Fatalf("list paid failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != "DP0002" {
		t.Fatalf("paid filter mismatch: total=%d orders=%+v", total, orders)
	}

	orders, total, err = repo.ListAdmin(OrderListFilter{Email: "B@example.com", Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list by email failed: %v", err)
	}
	if total != 2 || len(orders) != 1 {
		t.Fatalf("email filter with pagination mismatch: total=%d len=%d", total, len(orders))
	}

	orders, _, err = repo.ListAdmin(OrderListFilter{Search: "a@exa"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNo != "DP0001" {
		t.Fatalf("search mismatch: %+v", orders)
	}
}

func TestOrderRepositoryUpdateStatusAndPaid(t *testing.T) {
	repo := NewOrderRepository(openRepositoryTestDB(t))
	order := createTestOrder(t, repo, "DP0001", "a@example.com", false)

	updated, err := repo.UpdateStatus(order.ID, constants.OrderStatusNew, constants.OrderStatusConfirmed)
	if err != nil || !updated {
		t.Fatalf("update status failed: updated=%v err=%v", updated, err)
	}
	updated, err = repo.UpdateStatus(order.ID, constants.OrderStatusNew, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("stale update failed: %v", err)
	}
	if updated {
		t.Fatalf("stale from-status must not update")
	}
	if err := repo.UpdatePaid(order.ID, true); err != nil {
		t.Fatalf("update paid failed: %v", err)
	}
	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusConfirmed || !got.Paid {
		t.Fatalf("updates not persisted: status=%s paid=%v", got.Status, got.Paid)
	}
}
