package admin

import (
	"strconv"
	"strings"

	"github.com/dpit-cms/internal/constants"
	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderPaidRequest 更新支付标记请求
type UpdateOrderPaidRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// AdminListOrders 后台订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	paid, err := parseBoolNullable(c.Query("paid"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Status:      c.Query("status"),
		Paid:        paid,
		OrderNo:     c.Query("order_no"),
		Email:       c.Query("email"),
		Search:      c.Query("search"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	locale := i18n.ResolveLocale(c)
	items := make([]handlershared.OrderView, 0, len(orders))
	for i := range orders {
		items = append(items, handlershared.BuildOrderView(&orders[i], locale))
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 后台订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetAdminByID(id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, handlershared.BuildOrderView(order, i18n.ResolveLocale(c)))
}

// AdminUpdateOrderStatus 后台更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if staffID, exists := c.Get(constants.ContextKeyUserID); exists {
		requestLog(c).Infow("admin_order_status_changed", "staff_id", staffID, "order_id", order.ID, "status", order.Status)
	}
	response.Success(c, handlershared.BuildOrderView(order, i18n.ResolveLocale(c)))
}

// AdminUpdateOrderPaid 后台切换支付标记
func (h *Handler) AdminUpdateOrderPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Paid == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.SetPaid(id, *req.Paid)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, handlershared.BuildOrderView(order, i18n.ResolveLocale(c)))
}
