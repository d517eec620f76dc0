package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/provider"
	"github.com/dpit-cms/internal/queue"
	"github.com/dpit-cms/internal/service"
	"github.com/dpit-cms/internal/session"

	"github.com/hibiken/asynq"
)

// orderMailer 订单邮件发送能力，*service.EmailService 实现该接口
type orderMailer interface {
	Enabled() bool
	SendOrderCreatedAdmin(toEmail string, order *models.Order) error
	SendOrderConfirmation(order *models.Order) error
	SendOrderStatusEmail(toEmail string, input service.OrderStatusEmailInput, locale string) error
}

// expiredSessionPurger 可清理过期会话的存储
type expiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

var _ expiredSessionPurger = (*session.DBStore)(nil)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	mailer orderMailer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{Container: c}
	if c != nil && c.EmailService != nil {
		consumer.mailer = c.EmailService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderCreatedNotify, c.handleOrderCreatedNotify)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskSessionCleanup, c.handleSessionCleanup)
}

// handleOrderCreatedNotify 新订单通知：管理员邮件 + 客户确认，发送失败只记录日志
func (c *Consumer) handleOrderCreatedNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderCreatedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_created_notify_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID, "worker_order_created_notify")
	if err != nil || order == nil {
		return err
	}
	if c.mailer == nil || !c.mailer.Enabled() {
		logger.Debugw("worker_order_created_notify_skip_email_disabled", "order_id", order.ID)
		return nil
	}

	adminEmail := ""
	if c.Container != nil && c.Config != nil {
		adminEmail = strings.TrimSpace(c.Config.Site.AdminEmail)
	}
	if adminEmail != "" {
		if err := c.mailer.SendOrderCreatedAdmin(adminEmail, order); err != nil {
			logger.Warnw("worker_order_created_admin_email_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"receiver_email", adminEmail,
				"error", err,
			)
		}
	}
	if strings.TrimSpace(order.Email) != "" {
		if err := c.mailer.SendOrderConfirmation(order); err != nil {
			logger.Warnw("worker_order_confirmation_email_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"receiver_email", order.Email,
				"error", err,
			)
		}
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID, "worker_order_status_email")
	if err != nil || order == nil {
		return err
	}
	receiverEmail := strings.TrimSpace(order.Email)
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if c.mailer == nil || !c.mailer.Enabled() {
		logger.Debugw("worker_order_status_email_skip_email_disabled", "order_id", order.ID)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderNo: order.OrderNo,
		Status:  status,
		Paid:    payload.Paid,
	}
	if err := c.mailer.SendOrderStatusEmail(receiverEmail, input, order.Locale); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		if errors.Is(err, service.ErrInvalidEmail) || errors.Is(err, service.ErrEmailRecipientRejected) {
			return nil
		}
		return err
	}
	return nil
}

func (c *Consumer) handleSessionCleanup(ctx context.Context, _ *asynq.Task) error {
	if c == nil || c.Container == nil {
		return nil
	}
	purger, ok := c.SessionStore.(expiredSessionPurger)
	if !ok {
		return nil
	}
	removed, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warnw("worker_session_cleanup_failed", "error", err)
		return err
	}
	if removed > 0 {
		logger.Infow("worker_session_cleanup_done", "removed", removed)
	}
	return nil
}

func (c *Consumer) loadOrder(orderID uint, event string) (*models.Order, error) {
	if orderID == 0 {
		logger.Debugw(event+"_skip_invalid_payload", "order_id", orderID)
		return nil, nil
	}
	if c.Container == nil || c.OrderRepo == nil {
		logger.Warnw(event+"_skip_repo_nil", "order_id", orderID)
		return nil, nil
	}
	order, err := c.OrderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw(event+"_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if order == nil {
		logger.Debugw(event+"_skip_order_not_found", "order_id", orderID)
		return nil, nil
	}
	return order, nil
}
