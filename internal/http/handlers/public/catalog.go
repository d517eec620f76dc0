package public

import (
	"strconv"

	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/repository"
	"github.com/dpit-cms/internal/service"

	"github.com/gin-gonic/gin"
)

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, key: "error.service_not_found"},
}

// ListServices 公开服务列表
func (h *Handler) ListServices(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	popular, _ := strconv.ParseBool(c.DefaultQuery("popular", "false"))
	result, err := h.CatalogService.ListServices(c.Request.Context(), repository.ServiceListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		OnlyPopular: popular,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.BuildPagination(page, pageSize, result.Total))
}

// GetService 服务详情
func (h *Handler) GetService(c *gin.Context) {
	view, err := h.CatalogService.GetServiceBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_fetch_failed")
		return
	}
	response.Success(c, view)
}

// ListPortfolio 公开作品列表
func (h *Handler) ListPortfolio(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	orderable, _ := strconv.ParseBool(c.DefaultQuery("orderable", "false"))
	result, err := h.CatalogService.ListPortfolio(c.Request.Context(), repository.PortfolioListFilter{
		Page:          page,
		PageSize:      pageSize,
		OnlyOrderable: orderable,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.BuildPagination(page, pageSize, result.Total))
}
