package router

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/cache"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/service"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionMiddleware 按 Cookie 加载访客会话，请求结束后回写
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}
		opts := manager.Options()
		cookieID, _ := c.Cookie(opts.CookieName)
		sess := manager.Load(c.Request.Context(), cookieID)
		c.Set(constants.ContextKeySession, sess)

		// 响应头在处理器写入前下发，会话 ID 在本次请求中不会变化
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     opts.CookieName,
			Value:    sess.ID(),
			Path:     "/",
			Domain:   opts.CookieDomain,
			MaxAge:   int(opts.MaxAge / time.Second),
			Secure:   opts.CookieSecure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		c.Next()

		if err := manager.Save(c.Request.Context(), sess); err != nil {
			logger.Errorw("session_save_failed",
				"request_id", getRequestID(c),
				"path", c.Request.URL.Path,
				"error", err,
			)
		}
	}
}

// UserTokenResolver 解析用户令牌并获取鉴权快照
type UserTokenResolver interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
	ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error)
}

// OptionalUserAuthMiddleware 识别携带 Bearer Token 的用户，无效令牌按匿名处理
func OptionalUserAuthMiddleware(resolver UserTokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			c.Next()
			return
		}
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}
		claims, err := resolver.ParseUserJWT(tokenString)
		if err != nil {
			logger.Debugw("user_token_ignored", "request_id", getRequestID(c), "error", err)
			c.Next()
			return
		}
		state, err := resolver.ResolveAuthState(c.Request.Context(), claims.UserID)
		if err != nil || state == nil || !state.IsActive {
			logger.Debugw("user_auth_state_rejected", "request_id", getRequestID(c), "user_id", claims.UserID, "error", err)
			c.Next()
			return
		}
		c.Set(constants.ContextKeyUserID, state.UserID)
		c.Set(constants.ContextKeyIsStaff, state.IsStaff)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireUserMiddleware 要求已登录用户
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(constants.ContextKeyUserID); !exists {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffEnforcer 员工权限判定
type StaffEnforcer interface {
	EnforceStaff(userID uint, object, action string) (bool, error)
}

// StaffRBACMiddleware 员工后台 RBAC 鉴权中间件
func StaffRBACMiddleware(enforcer StaffEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		if enforcer == nil {
			logger.Errorw("staff_rbac_service_unavailable")
			response.Unauthorized(c, i18n.T(locale, "error.unauthorized"))
			c.Abort()
			return
		}

		rawID, exists := c.Get(constants.ContextKeyUserID)
		staffID, _ := rawID.(uint)
		if !exists || staffID == 0 {
			response.Unauthorized(c, i18n.T(locale, "error.unauthorized"))
			c.Abort()
			return
		}
		rawStaff, _ := c.Get(constants.ContextKeyIsStaff)
		if isStaff, ok := rawStaff.(bool); !ok || !isStaff {
			response.Forbidden(c, i18n.T(locale, "error.forbidden"))
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := enforcer.EnforceStaff(staffID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("staff_rbac_enforce_failed",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, i18n.T(locale, "error.unauthorized"))
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("staff_rbac_permission_denied",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(locale, "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
