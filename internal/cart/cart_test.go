package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/dpit-cms/internal/catalog"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/session"

	"github.com/shopspring/decimal"
)

type fakeItem struct {
	id        uint
	title     string
	available bool
	pricing   models.Pricing
}

func (f *fakeItem) ItemID() uint            { return f.id }
func (f *fakeItem) ItemTitle() string       { return f.title }
func (f *fakeItem) AvailableForOrder() bool { return f.available }
func (f *fakeItem) Pricing() models.Pricing { return f.pricing }

type fakeProvider struct {
	items map[uint]catalog.Item
	calls int
}

func (p *fakeProvider) FindByIDs(_ context.Context, ids []uint) (map[uint]catalog.Item, error) {
	p.calls++
	out := make(map[uint]catalog.Item)
	for _, id := range ids {
		if item, ok := p.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (p *fakeProvider) GetByID(_ context.Context, id uint) (catalog.Item, error) {
	return p.items[id], nil
}

func fixedItem(id uint, price int64) *fakeItem {
	return &fakeItem{id: id, title: "fixed", available: true, pricing: models.Pricing{
		Type: constants.PriceTypeFixed, Fixed: decimal.NewFromInt(price), Currency: constants.CurrencyRUB,
	}}
}

func rangeItem(id uint, min, max int64) *fakeItem {
	return &fakeItem{id: id, title: "range", available: true, pricing: models.Pricing{
		Type: constants.PriceTypeRange, Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max), Currency: constants.CurrencyRUB,
	}}
}

func negotiableItem(id uint) *fakeItem {
	return &fakeItem{id: id, title: "negotiable", available: true, pricing: models.Pricing{
		Type: constants.PriceTypeNegotiable, Currency: constants.CurrencyRUB,
	}}
}

func newTestCart(t *testing.T, items ...*fakeItem) (*Cart, *session.Session, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{items: map[uint]catalog.Item{}}
	for _, item := range items {
		provider.items[item.id] = item
	}
	registry := catalog.NewRegistry()
	registry.Register(constants.ItemTypeService, provider)
	sess := session.New()
	c, err := New(sess, registry)
	if err != nil {
		t.Fatalf("new cart failed: %v", err)
	}
	return c, sess, provider
}

func TestAddAccumulatesAndOverride(t *testing.T) {
	item := fixedItem(1, 100)
	c, _, _ := newTestCart(t, item)
	ctx := context.Background()

	if err := c.Add(item, constants.ItemTypeService, 1, false); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.Add(item, constants.ItemTypeService, 2, false); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if n, _ := c.Len(ctx); n != 3 {
		t.Fatalf("accumulated quantity want 3 got %d", n)
	}

	for i := 0; i < 2; i++ {
		if err := c.Add(item, constants.ItemTypeService, 5, true); err != nil {
			t.Fatalf("override add failed: %v", err)
		}
	}
	if n, _ := c.Len(ctx); n != 5 {
		t.Fatalf("override should be idempotent, want 5 got %d", n)
	}
	if len(c.Lines()) != 1 {
		t.Fatalf("expected exactly one line per item, got %d", len(c.Lines()))
	}
}

func TestAddNonPositiveQuantityRemovesLine(t *testing.T) {
	item := fixedItem(1, 100)
	c, _, _ := newTestCart(t, item)

	if err := c.Add(item, constants.ItemTypeService, 2, false); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.Add(item, constants.ItemTypeService, -5, false); err != nil {
		t.Fatalf("negative add failed: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("line with non-positive quantity should be removed")
	}
	if err := c.Add(item, constants.ItemTypeService, 0, true); err != nil {
		t.Fatalf("zero override failed: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("zero override should not create a line")
	}
}

func TestTotalsExcludeFlexibleLines(t *testing.T) {
	a := fixedItem(1, 100)
	b := fixedItem(2, 50)
	r := rangeItem(3, 1000, 5000)
	n := negotiableItem(4)
	c, _, provider := newTestCart(t, a, b, r, n)
	ctx := context.Background()

	_ = c.Add(a, constants.ItemTypeService, 2, false)
	_ = c.Add(b, constants.ItemTypeService, 1, false)
	total, err := c.TotalPrice(ctx)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("total want 250 got %s", total)
	}
	flexible, _ := c.HasFlexiblePrices(ctx)
	if flexible {
		t.Fatalf("fixed-only cart should not have flexible prices")
	}

	_ = c.Add(r, constants.ItemTypeService, 2, false)
	_ = c.Add(n, constants.ItemTypeService, 1, false)
	provider.calls = 0
	summary, err := c.Summary(ctx)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one batched lookup per type, got %d", provider.calls)
	}
	if !summary.TotalPrice.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("flexible lines must not change total, got %s", summary.TotalPrice)
	}
	if !summary.HasFlexiblePrices || summary.Length != 6 {
		t.Fatalf("unexpected summary: flexible=%v length=%d", summary.HasFlexiblePrices, summary.Length)
	}
	if summary.TotalDisplay != "250 ₽" {
		t.Fatalf("total display mismatch: %q", summary.TotalDisplay)
	}
	for _, line := range summary.Lines {
		switch line.ItemID {
		case 3:
			if line.TotalDisplay != "от 2 000 до 10 000 ₽" || !line.TotalPrice.IsZero() {
				t.Fatalf("range line mismatch: %+v", line)
			}
		case 4:
			if line.PriceDisplay != NegotiableLabel {
				t.Fatalf("negotiable line mismatch: %+v", line)
			}
		}
	}
}

func TestIterateSkipsAndPrunesDanglingLines(t *testing.T) {
	kept := fixedItem(1, 100)
	gone := fixedItem(2, 70)
	c, sess, provider := newTestCart(t, kept, gone)
	ctx := context.Background()

	_ = c.Add(kept, constants.ItemTypeService, 1, false)
	_ = c.Add(gone, constants.ItemTypeService, 3, false)
	delete(provider.items, 2)

	if got := c.StoredQuantity(); got != 4 {
		t.Fatalf("stored quantity should include dangling line, got %d", got)
	}
	details, err := c.Iterate(ctx)
	if err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if len(details) != 1 || details[0].ItemID != 1 {
		t.Fatalf("dangling line should be skipped, got %+v", details)
	}
	if n, _ := c.Len(ctx); n != 1 {
		t.Fatalf("len should count resolved lines only, got %d", n)
	}

	reloaded, err := New(sess, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.StoredQuantity() != 1 {
		t.Fatalf("dangling line should be pruned from session, got %d", reloaded.StoredQuantity())
	}
}

func TestPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	item := fixedItem(1, 100)
	c, sess, _ := newTestCart(t, item)
	_ = c.Add(item, constants.ItemTypeService, 1, false)

	item.pricing.Fixed = decimal.NewFromInt(999)
	_ = c.Add(item, constants.ItemTypeService, 1, false)

	reloaded, err := New(sess, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	lines := reloaded.Lines()
	if len(lines) != 1 || !lines[0].Price.Equal(decimal.NewFromInt(100)) || lines[0].Quantity != 2 {
		t.Fatalf("snapshot price should stay 100, got %+v", lines)
	}
}

func TestRemoveAndClear(t *testing.T) {
	a := fixedItem(1, 100)
	b := fixedItem(2, 200)
	c, sess, _ := newTestCart(t, a, b)
	_ = c.Add(a, constants.ItemTypeService, 1, false)
	_ = c.Add(b, constants.ItemTypeService, 1, false)

	if err := c.Remove(constants.ItemTypeService, 1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := c.Remove(constants.ItemTypeService, 42); err != nil {
		t.Fatalf("removing absent line should be a no-op: %v", err)
	}
	if c.StoredQuantity() != 1 {
		t.Fatalf("expected one remaining line")
	}
	c.Clear()
	if sess.Has(constants.DefaultCartSessionKey) {
		t.Fatalf("clear should delete the cart key from session")
	}
}

func TestMaxQuantityClamp(t *testing.T) {
	item := fixedItem(1, 10)
	provider := &fakeProvider{items: map[uint]catalog.Item{1: item}}
	registry := catalog.NewRegistry()
	registry.Register(constants.ItemTypeService, provider)
	c, err := New(session.New(), registry, WithMaxQuantity(3), WithSessionKey("basket"))
	if err != nil {
		t.Fatalf("new cart failed: %v", err)
	}
	_ = c.Add(item, constants.ItemTypeService, 10, false)
	if c.StoredQuantity() != 3 {
		t.Fatalf("quantity should be clamped to 3, got %d", c.StoredQuantity())
	}
}

func TestEnsureAvailable(t *testing.T) {
	item := fixedItem(1, 10)
	item.available = false
	err := EnsureAvailable(item, constants.ItemTypePortfolio, 1)
	var unavailable *UnavailableItemError
	if err == nil {
		t.Fatalf("unavailable item should error")
	}
	if !errors.As(err, &unavailable) || unavailable.ItemID != 1 {
		t.Fatalf("expected UnavailableItemError, got %v", err)
	}
	if err := EnsureAvailable(nil, constants.ItemTypeService, 5); err == nil {
		t.Fatalf("missing item should error")
	}
}
