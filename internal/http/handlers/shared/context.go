package shared

import (
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// OptionalUserID 读取可选登录用户 ID，未登录时返回 nil。
func OptionalUserID(c *gin.Context) *uint {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// GetSession 读取会话中间件加载的访客会话，缺失时返回错误响应。
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if exists {
		if sess, ok := value.(*session.Session); ok && sess != nil {
			return sess, true
		}
	}
	RespondError(c, response.CodeInternal, "error.session_unavailable", nil)
	return nil, false
}
