package queue

import (
	"encoding/json"

	"github.com/dpit-cms/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCreatedNotify 新订单通知任务（管理员 + 客户确认）
	TaskOrderCreatedNotify = constants.TaskOrderCreatedNotify
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskSessionCleanup 过期会话清理任务
	TaskSessionCleanup = constants.TaskSessionCleanup
)

// OrderCreatedNotifyPayload 新订单通知任务载荷
type OrderCreatedNotifyPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Paid    *bool  `json:"paid,omitempty"`
}

// NewOrderCreatedNotifyTask 创建新订单通知任务
func NewOrderCreatedNotifyTask(payload OrderCreatedNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCreatedNotify, body), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewSessionCleanupTask 创建过期会话清理任务
func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskSessionCleanup, nil)
}
