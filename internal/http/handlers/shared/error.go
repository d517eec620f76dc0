package shared

import (
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, err, nil)
}

// RespondErrorWithData 返回带数据的国际化错误响应（如表单字段错误）。
func RespondErrorWithData(c *gin.Context, code int, key string, err error, data interface{}) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	appErr := response.WrapError(code, msg, err)
	switch {
	case err == nil:
	case appErr.ServerSide():
		RequestLog(c).Errorw("handler_error", "code", appErr.Code, "key", key, "error", err)
	default:
		RequestLog(c).Warnw("handler_rejected", "code", appErr.Code, "key", key, "error", err)
	}
	if data == nil {
		response.Error(c, appErr.Code, appErr.Message)
		return
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, data)
}
