package worker

import (
	"context"
	"errors"

	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/queue"

	"github.com/hibiken/asynq"
)

const sessionCleanupSpec = "@every 1h"

// Service 异步队列服务
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	consumer  *Consumer
}

// NewService 创建异步队列服务，数据库会话后端时同时注册过期会话定时清理
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	s := &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}
	if needsSessionCleanup(consumer) {
		scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
		if _, err := scheduler.Register(sessionCleanupSpec, queue.NewSessionCleanupTask(), asynq.Queue(queue.DefaultQueue)); err != nil {
			return nil, err
		}
		s.scheduler = scheduler
	}
	return s, nil
}

func needsSessionCleanup(consumer *Consumer) bool {
	if consumer == nil || consumer.Container == nil {
		return false
	}
	_, ok := consumer.SessionStore.(expiredSessionPurger)
	return ok
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			logger.Warnw("worker_scheduler_start_failed", "error", err)
		}
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}
