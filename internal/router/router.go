package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/cache"
	"github.com/dpit-cms/internal/config"
	adminhandlers "github.com/dpit-cms/internal/http/handlers/admin"
	publichandlers "github.com/dpit-cms/internal/http/handlers/public"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dpit"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Name:          "checkout",
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		FailOpen:      true,
	}
	loginRule := RateLimitRule{
		Name:          "login",
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	var tokenResolver UserTokenResolver
	if c.UserAuthService != nil {
		tokenResolver = c.UserAuthService
	}
	var staffEnforcer StaffEnforcer
	if c.AuthzService != nil {
		staffEnforcer = c.AuthzService
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(OptionalUserAuthMiddleware(tokenResolver))
	{
		// 公开目录
		catalogGroup := apiV1.Group("")
		{
			catalogGroup.GET("/services", publicHandler.ListServices)
			catalogGroup.GET("/services/:slug", publicHandler.GetService)
			catalogGroup.GET("/portfolio", publicHandler.ListPortfolio)
			catalogGroup.GET("/captcha/config", publicHandler.GetCaptchaConfig)
			catalogGroup.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 访客会话：购物车、结算、订单回执
		guest := apiV1.Group("")
		guest.Use(SessionMiddleware(c.SessionManager))
		{
			guest.GET("/cart", publicHandler.GetCart)
			guest.POST("/cart/items", publicHandler.AddCartItem)
			guest.DELETE("/cart/items/:item_type/:item_id", publicHandler.RemoveCartItem)
			guest.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyBySessionAndIP), publicHandler.Checkout)
			guest.GET("/orders/:order_no", publicHandler.GetOrder)
		}

		// 登录用户
		user := apiV1.Group("/me")
		user.Use(RequireUserMiddleware())
		{
			user.GET("", publicHandler.GetCurrentUser)
			user.GET("/checkout-prefill", publicHandler.GetCheckoutPrefill)
			user.GET("/orders", publicHandler.ListMyOrders)
		}

		// 员工后台
		admin := apiV1.Group("/admin")
		admin.Use(RequireUserMiddleware(), StaffRBACMiddleware(staffEnforcer))
		{
			admin.GET("/me", adminHandler.GetAdminMe)
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
			admin.PATCH("/orders/:id/paid", adminHandler.AdminUpdateOrderPaid)
			admin.DELETE("/catalog/cache", adminHandler.AdminInvalidateCatalogCache)
			admin.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
