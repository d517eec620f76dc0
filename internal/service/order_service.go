package service

import (
	"strings"
	"time"

	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/repository"
)

// OrderService 订单查询与后台管理服务
type OrderService struct {
	orderRepo repository.OrderRepository
	notifier  OrderNotifier
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, notifier OrderNotifier) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// OrderOwner 订单归属：登录用户或下单会话
type OrderOwner struct {
	UserID    *uint
	SessionID string
}

// GetForOwner 获取归属于当前用户或当前会话的订单
func (s *OrderService) GetForOwner(orderNo string, owner OrderOwner) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil || !ownsOrder(order, owner) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func ownsOrder(order *models.Order, owner OrderOwner) bool {
	if order.UserID != nil && owner.UserID != nil && *order.UserID == *owner.UserID {
		return true
	}
	sessionID := strings.TrimSpace(owner.SessionID)
	return sessionID != "" && order.SessionID == sessionID
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return []models.Order{}, 0, nil
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = normalizeStatus(filter.Status)
	filter.Email = strings.ToLower(strings.TrimSpace(filter.Email))
	filter.OrderNo = strings.TrimSpace(filter.OrderNo)
	return s.orderRepo.ListAdmin(filter)
}

// GetAdminByID 后台订单详情
func (s *OrderService) GetAdminByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 后台更新订单状态，按状态机校验
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	target := normalizeStatus(status)
	if !IsValidOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if !CanTransitionOrderStatus(order.Status, target) {
		return nil, ErrOrderTransitionInvalid
	}

	updated, err := s.orderRepo.UpdateStatus(order.ID, order.Status, target)
	if err != nil {
		logger.Errorw("order_status_update_failed", "order_id", order.ID, "status", target, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if !updated {
		logger.Warnw("order_status_changed_concurrently", "order_id", order.ID, "expected", order.Status, "target", target)
		return nil, ErrOrderTransitionInvalid
	}
	previous := order.Status
	order.Status = target
	order.UpdatedAt = time.Now()
	logger.Infow("order_status_updated", "order_id", order.ID, "order_no", order.OrderNo, "from", previous, "to", target)

	s.enqueueStatusEmail(order, nil)
	return order, nil
}

// SetPaid 后台切换支付标记
func (s *OrderService) SetPaid(id uint, paid bool) (*models.Order, error) {
	order, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if order.Paid == paid {
		return order, nil
	}
	if err := s.orderRepo.UpdatePaid(order.ID, paid); err != nil {
		logger.Errorw("order_paid_update_failed", "order_id", order.ID, "paid", paid, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	order.Paid = paid
	logger.Infow("order_paid_updated", "order_id", order.ID, "order_no", order.OrderNo, "paid", paid)

	s.enqueueStatusEmail(order, &paid)
	return order, nil
}

func (s *OrderService) enqueueStatusEmail(order *models.Order, paid *bool) {
	if _, err := enqueueOrderStatusEmailTaskIfEligible(s.notifier, order.ID, order.Email, order.Status, paid); err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"status", order.Status,
			"error", err,
		)
	}
}
