package queue

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 状态邮件、会话清理
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 新订单通知
	CriticalQueue = constants.QueueCritical

	defaultMaxRetry    = 5
	defaultConcurrency = 10
	// 同一订单的新订单通知在该时间内只入队一次
	orderNotifyRetention = 24 * time.Hour
)

// Client 订单通知任务的 asynq 客户端；未启用时所有入队操作为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderCreatedNotify 新订单通知，按订单 ID 去重
func (c *Client) EnqueueOrderCreatedNotify(payload OrderCreatedNotifyPayload, opts ...asynq.Option) error {
	task, err := NewOrderCreatedNotifyTask(payload)
	if err != nil {
		return err
	}
	base := []asynq.Option{
		asynq.Queue(CriticalQueue),
		asynq.TaskID(fmt.Sprintf("%s:%d", TaskOrderCreatedNotify, payload.OrderID)),
		asynq.Retention(orderNotifyRetention),
	}
	err = c.enqueue(task, append(base, opts...))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueueOrderStatusEmail 订单状态或支付标记变更邮件
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload, opts ...asynq.Option) error {
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, append([]asynq.Option{asynq.Queue(DefaultQueue)}, opts...))
}

func (c *Client) enqueue(task *asynq.Task, opts []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	opts = append([]asynq.Option{asynq.MaxRetry(defaultMaxRetry)}, opts...)
	_, err := c.client.Enqueue(task, opts...)
	return err
}

// BuildServerConfig 生成 worker 的连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil && cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host, port := "127.0.0.1", 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if h := strings.TrimSpace(cfg.Host); h != "" {
			host = h
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return opt
}
