package public

import (
	"github.com/dpit-cms/internal/constants"
	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/service"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
)

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

// GetOrder 订单回执，仅限下单用户或下单会话访问
func (h *Handler) GetOrder(c *gin.Context) {
	owner := service.OrderOwner{UserID: handlershared.OptionalUserID(c)}
	if value, exists := c.Get(constants.ContextKeySession); exists {
		if sess, ok := value.(*session.Session); ok && sess != nil {
			owner.SessionID = sess.ID()
		}
	}
	order, err := h.OrderService.GetForOwner(c.Param("order_no"), owner)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, handlershared.BuildOrderView(order, i18n.ResolveLocale(c)))
}

// ListMyOrders 当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	locale := i18n.ResolveLocale(c)
	views := make([]handlershared.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, handlershared.BuildOrderView(&orders[i], locale))
	}
	response.SuccessWithPage(c, views, response.BuildPagination(page, pageSize, total))
}
