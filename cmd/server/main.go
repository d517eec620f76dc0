package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/dpit-cms/internal/app"
	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode != "release"); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	ensureDefaultStaff(cfg, stdLog)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// ensureDefaultStaff 按环境变量初始化默认员工并授予 manager 角色
func ensureDefaultStaff(cfg *config.Config, stdLog *log.Logger) {
	email := os.Getenv("DPIT_DEFAULT_STAFF_EMAIL")
	password := os.Getenv("DPIT_DEFAULT_STAFF_PASSWORD")
	if cfg.Server.Mode == "release" && password == "" {
		stdLog.Printf("警告: 未设置 DPIT_DEFAULT_STAFF_PASSWORD，已跳过默认员工初始化")
		return
	}
	staff, err := models.InitDefaultStaff(models.DB, email, password)
	if err != nil {
		stdLog.Printf("警告: 初始化默认员工失败: %v", err)
		return
	}
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Printf("警告: 权限服务初始化失败: %v", err)
		return
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Printf("警告: 预置角色初始化失败: %v", err)
		return
	}
	roles, err := authzService.GetStaffRoles(staff.ID)
	if err == nil && len(roles) > 0 {
		return
	}
	if err := authzService.SetStaffRoles(staff.ID, []string{authz.RoleManager}); err != nil {
		stdLog.Printf("警告: 默认员工授权失败: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + "██████╗ ██████╗ ██╗████████╗" + ansiReset)
	fmt.Println(ansiCyan + "██╔══██╗██╔══██╗██║╚══██╔══╝" + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██████╔╝██║   ██║   " + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██╔═══╝ ██║   ██║   " + ansiReset)
	fmt.Println(ansiCyan + "██████╔╝██║     ██║   ██║   " + ansiReset)
	fmt.Println(ansiCyan + "╚═════╝ ╚═╝     ╚═╝   ╚═╝   " + ansiReset)
	fmt.Println(ansiBold + "DPIT CMS API" + ansiReset + "  mode=" + mode)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
