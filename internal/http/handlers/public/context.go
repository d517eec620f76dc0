package public

import (
	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/constants"
	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextKeyUserID, "error.unauthorized", "error.internal")
}

// loadCart 从当前会话构造购物车
func (h *Handler) loadCart(c *gin.Context) (*cart.Cart, *session.Session, bool) {
	sess, ok := handlershared.GetSession(c)
	if !ok {
		return nil, nil, false
	}
	opts := []cart.Option{}
	if h.Config != nil {
		opts = append(opts,
			cart.WithSessionKey(h.Config.Cart.SessionKey),
			cart.WithMaxQuantity(h.Config.Cart.MaxQuantity),
		)
	}
	cc, err := cart.New(sess, h.Catalog, opts...)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_load_failed", err)
		return nil, nil, false
	}
	return cc, sess, true
}

// commitSession 在写响应前落盘会话，避免响应成功而购物车未保存
func (h *Handler) commitSession(c *gin.Context, sess *session.Session) error {
	if h.SessionManager == nil {
		return nil
	}
	if err := h.SessionManager.Save(c.Request.Context(), sess); err != nil {
		logger.Errorw("session_commit_failed",
			"session_id", sess.ID(),
			"path", c.Request.URL.Path,
			"error", err,
		)
		return err
	}
	return nil
}
