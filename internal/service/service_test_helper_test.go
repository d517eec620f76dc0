package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dpit-cms/internal/catalog"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/queue"
	"github.com/dpit-cms/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newTestRegistry(db *gorm.DB) *catalog.Registry {
	return catalog.NewDefaultRegistry(
		repository.NewServiceRepository(db),
		repository.NewPortfolioRepository(db),
	)
}

func createFixedService(t *testing.T, db *gorm.DB, slug string, price int64) *models.Service {
	t.Helper()
	svc := &models.Service{
		Title:      "Service " + slug,
		Slug:       slug,
		PriceType:  constants.PriceTypeFixed,
		PriceFixed: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:   constants.CurrencyRUB,
		IsActive:   true,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	return svc
}

func createRangeService(t *testing.T, db *gorm.DB, slug string, min, max int64) *models.Service {
	t.Helper()
	svc := &models.Service{
		Title:     "Service " + slug,
		Slug:      slug,
		PriceType: constants.PriceTypeRange,
		PriceMin:  models.NewMoneyFromDecimal(decimal.NewFromInt(min)),
		PriceMax:  models.NewMoneyFromDecimal(decimal.NewFromInt(max)),
		Currency:  constants.CurrencyRUB,
		IsActive:  true,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	return svc
}

type recordingNotifier struct {
	mu         sync.Mutex
	created    []queue.OrderCreatedNotifyPayload
	statuses   []queue.OrderStatusEmailPayload
	enqueueErr error
}

func (n *recordingNotifier) EnqueueOrderCreatedNotify(payload queue.OrderCreatedNotifyPayload, _ ...asynq.Option) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.enqueueErr != nil {
		return n.enqueueErr
	}
	n.created = append(n.created, payload)
	return nil
}

func (n *recordingNotifier) EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload, _ ...asynq.Option) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.enqueueErr != nil {
		return n.enqueueErr
	}
	n.statuses = append(n.statuses, payload)
	return nil
}
