package public

import (
	"strconv"
	"strings"

	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
)

const maxCartRequestQuantity = 1000

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	ItemID   uint   `json:"item_id" binding:"required"`
	Quantity *int   `json:"quantity"`
	Override bool   `json:"override"`
}

// GetCart 获取购物车明细与汇总
func (h *Handler) GetCart(c *gin.Context) {
	cc, _, ok := h.loadCart(c)
	if !ok {
		return
	}
	summary, err := cc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_load_failed", err)
		return
	}
	response.Success(c, summary)
}

// AddCartItem 加入或更新购物车行
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity > maxCartRequestQuantity || quantity < -maxCartRequestQuantity || (req.Override && quantity < 0) {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
		return
	}
	itemType := strings.ToLower(strings.TrimSpace(req.ItemType))

	cc, sess, ok := h.loadCart(c)
	if !ok {
		return
	}
	provider, err := h.Catalog.Provider(itemType)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeBadRequest, "error.item_type_invalid")
		return
	}
	item, err := provider.GetByID(c.Request.Context(), req.ItemID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	if err := cart.EnsureAvailable(item, itemType, req.ItemID); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeBadRequest, "error.item_unavailable")
		return
	}
	if err := cc.Add(item, itemType, quantity, req.Override); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_load_failed")
		return
	}
	h.respondCartSummary(c, cc, sess, "cart.added")
}

// RemoveCartItem 删除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemType := strings.ToLower(strings.TrimSpace(c.Param("item_type")))
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cc, sess, ok := h.loadCart(c)
	if !ok {
		return
	}
	if err := cc.Remove(itemType, uint(itemID)); err != nil {
		respondError(c, response.CodeInternal, "error.cart_load_failed", err)
		return
	}
	h.respondCartSummary(c, cc, sess, "cart.removed")
}

func (h *Handler) respondCartSummary(c *gin.Context, cc *cart.Cart, sess *session.Session, msgKey string) {
	if err := h.commitSession(c, sess); err != nil {
		respondError(c, response.CodeInternal, "error.session_save_failed", err)
		return
	}
	summary, err := cc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_load_failed", err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), msgKey), summary)
}
