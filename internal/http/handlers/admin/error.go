package admin

import (
	"errors"

	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

type adminErrorRule struct {
	target error
	code   int
	key    string
}

var orderUpdateErrorRules = []adminErrorRule{
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeConflict, key: "error.order_transition_invalid"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, key: "error.order_update_failed"},
}

func respondOrderError(c *gin.Context, err error) {
	for _, rule := range orderUpdateErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.internal", err)
}
