package app

import (
	"errors"
	"fmt"

	"github.com/dpit-cms/internal/cache"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/provider"
	"github.com/dpit-cms/internal/router"
	"github.com/dpit-cms/internal/worker"
)

// BuildRunner 按启动模式组装 HTTP 与 Worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !isKnownMode(mode) {
		return nil, fmt.Errorf("unknown run mode %q", mode)
	}

	container := provider.NewContainer(cfg)
	runner := NewRunner()

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		runner.Add(NewHTTPService(cfg.Server, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		runner.Add(workerService)
	}

	// 服务全部停止后释放共享连接
	runner.OnShutdown(container.QueueClient.Close)
	runner.OnShutdown(cache.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config.Server),
		"mode", opts.Mode,
		"services", runner.Names(),
	)
	return RunWithOptions(runner, opts)
}
