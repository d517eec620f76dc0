package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/queue"
	"github.com/dpit-cms/internal/repository"

	"gorm.io/gorm"
)

const defaultOrderNoPrefix = "DP"

// CheckoutService 购物车结算服务
type CheckoutService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	notifier      OrderNotifier
	orderNoPrefix string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(db *gorm.DB, orderRepo repository.OrderRepository, notifier OrderNotifier, orderNoPrefix string) *CheckoutService {
	prefix := strings.TrimSpace(orderNoPrefix)
	if prefix == "" {
		prefix = defaultOrderNoPrefix
	}
	return &CheckoutService{
		db:            db,
		orderRepo:     orderRepo,
		notifier:      notifier,
		orderNoPrefix: prefix,
	}
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Cart      *cart.Cart
	Contact   ContactInput
	UserID    *uint
	SessionID string
	ClientIP  string
	Locale    string
}

// Checkout 将购物车转为订单与订单项并清空购物车
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.Cart == nil || input.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	details, err := input.Cart.Iterate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
	}
	if len(details) == 0 {
		return nil, ErrEmptyCart
	}

	contact := input.Contact.Normalize()
	if err := ValidateContact(contact); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:   generateOrderNo(s.orderNoPrefix),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Comment:   contact.Comment,
		Status:    constants.OrderStatusNew,
		Paid:      false,
		UserID:    normalizeUserID(input.UserID),
		SessionID: strings.TrimSpace(input.SessionID),
		ClientIP:  strings.TrimSpace(input.ClientIP),
		Locale:    strings.TrimSpace(input.Locale),
	}
	items := buildOrderItems(details)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		logger.Errorw("checkout_order_create_failed",
			"session_id", order.SessionID,
			"lines", len(items),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}

	input.Cart.Clear()
	logger.Infow("checkout_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"items", len(items),
		"user_id", order.UserID,
	)

	if s.notifier != nil {
		if err := s.notifier.EnqueueOrderCreatedNotify(queue.OrderCreatedNotifyPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("checkout_enqueue_notify_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}
	return order, nil
}

func buildOrderItems(details []cart.LineDetail) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(details))
	for _, d := range details {
		items = append(items, models.OrderItem{
			ItemType:  d.ItemType,
			ItemID:    d.ItemID,
			Title:     d.Title,
			PriceType: d.PriceType,
			Price:     models.NewMoneyFromDecimal(d.Price),
			PriceMin:  models.NewMoneyFromDecimal(d.PriceMin),
			PriceMax:  models.NewMoneyFromDecimal(d.PriceMax),
			Currency:  d.Currency,
			Quantity:  d.Quantity,
		})
	}
	return items
}

func normalizeUserID(userID *uint) *uint {
	if userID == nil || *userID == 0 {
		return nil
	}
	id := *userID
	return &id
}

func generateOrderNo(prefix string) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", prefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
