package public

import (
	"github.com/dpit-cms/internal/constants"
	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	FirstName      string                              `json:"first_name"`
	LastName       string                              `json:"last_name"`
	Email          string                              `json:"email"`
	Phone          string                              `json:"phone"`
	Company        string                              `json:"company"`
	Comment        string                              `json:"comment"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

func (r CheckoutRequest) toContact() service.ContactInput {
	return service.ContactInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		Comment:   r.Comment,
	}
}

// Checkout 提交购物车并创建订单
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneCheckout, req.CaptchaPayload.ToServicePayload()); err != nil {
			respondWithMappedError(c, err, captchaErrorRules, response.CodeBadRequest, "error.captcha_invalid")
			return
		}
	}

	cc, sess, ok := h.loadCart(c)
	if !ok {
		return
	}
	locale := i18n.ResolveLocale(c)
	order, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		Cart:      cc,
		Contact:   req.toContact(),
		UserID:    handlershared.OptionalUserID(c),
		SessionID: sess.ID(),
		ClientIP:  c.ClientIP(),
		Locale:    locale,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	if err := sess.Set(constants.SessionKeyLastOrder, order.OrderNo); err != nil {
		logger.Warnw("checkout_session_mark_failed", "order_no", order.OrderNo, "error", err)
	}

	// 订单已落库，会话回写失败时如实告知购物车未清空，由前端阻止重复提交
	cartCleared := h.commitSession(c, sess) == nil
	msgKey := "order.created"
	if !cartCleared {
		msgKey = "order.created_cart_kept"
	}
	response.SuccessWithMsg(c, i18n.T(locale, msgKey), gin.H{
		"order_id":     order.ID,
		"order_no":     order.OrderNo,
		"cart_cleared": cartCleared,
	})
}

// GetCheckoutPrefill 登录用户的联系人预填信息
func (h *Handler) GetCheckoutPrefill(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	contact, err := h.UserAuthService.GetContact(userID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, contact)
}
