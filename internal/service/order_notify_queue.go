package service

import (
	"strings"

	"github.com/dpit-cms/internal/queue"

	"github.com/hibiken/asynq"
)

// OrderNotifier 订单通知任务入队接口，*queue.Client 实现该接口
type OrderNotifier interface {
	EnqueueOrderCreatedNotify(payload queue.OrderCreatedNotifyPayload, opts ...asynq.Option) error
	EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload, opts ...asynq.Option) error
}

// enqueueOrderStatusEmailTaskIfEligible 订单有收件邮箱时入队状态邮件任务。
// 返回值 skipped 表示任务被跳过。
func enqueueOrderStatusEmailTaskIfEligible(notifier OrderNotifier, orderID uint, receiverEmail, status string, paid *bool) (skipped bool, err error) {
	if notifier == nil || orderID == 0 {
		return true, nil
	}
	if strings.TrimSpace(receiverEmail) == "" {
		return true, nil
	}
	if err := notifier.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  strings.TrimSpace(status),
		Paid:    paid,
	}); err != nil {
		return false, err
	}
	return false, nil
}
