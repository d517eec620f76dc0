package provider

import (
	"strings"
	"time"

	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/cache"
	"github.com/dpit-cms/internal/catalog"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/queue"
	"github.com/dpit-cms/internal/repository"
	"github.com/dpit-cms/internal/service"
	"github.com/dpit-cms/internal/session"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ServiceRepo   repository.ServiceRepository
	PortfolioRepo repository.PortfolioRepository
	OrderRepo     repository.OrderRepository
	SessionRepo   repository.SessionRepository

	// Session & catalog
	Catalog        *catalog.Registry
	SessionStore   session.Store
	SessionManager *session.Manager

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	CatalogService  *service.CatalogService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		DB:          models.DB,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化会话与目录
	c.initSession()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.PortfolioRepo = repository.NewPortfolioRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
}

func (c *Container) initSession() {
	c.Catalog = catalog.NewDefaultRegistry(c.ServiceRepo, c.PortfolioRepo)
	logger.Infow("provider_catalog_ready", "item_types", c.Catalog.Types())

	backend := strings.ToLower(strings.TrimSpace(c.Config.Session.Backend))
	switch {
	case backend == constants.SessionBackendRedis && cache.Enabled():
		c.SessionStore = session.NewRedisStore(cache.Client(), c.Config.Redis.Prefix)
	default:
		if backend == constants.SessionBackendRedis {
			logger.Warnw("provider_session_redis_unavailable", "fallback", constants.SessionBackendDatabase)
		}
		c.SessionStore = session.NewDBStore(c.SessionRepo)
	}

	c.SessionManager = session.NewManager(c.SessionStore, session.Options{
		CookieName:   c.Config.Session.CookieName,
		CookieDomain: c.Config.Session.CookieDomain,
		CookieSecure: c.Config.Session.CookieSecure,
		MaxAge:       time.Duration(c.Config.Session.MaxAgeSeconds) * time.Second,
	})
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config.JWT, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.ServiceRepo, c.PortfolioRepo)
	c.CheckoutService = service.NewCheckoutService(c.DB, c.OrderRepo, c.QueueClient, c.Config.Order.NumberPrefix)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.QueueClient)
}
