package admin

import (
	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAdminMe 当前员工信息与角色
func (h *Handler) GetAdminMe(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(staffID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil || !user.IsStaff {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return
	}
	roles := []string{}
	permissions := []authz.Policy{}
	if h.AuthzService != nil {
		if roles, err = h.AuthzService.GetStaffRoles(staffID); err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		if permissions, err = h.AuthzService.StaffPermissions(staffID); err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
	}
	response.Success(c, gin.H{
		"user":        user,
		"roles":       roles,
		"permissions": permissions,
	})
}

// AdminInvalidateCatalogCache 清理目录列表缓存
func (h *Handler) AdminInvalidateCatalogCache(c *gin.Context) {
	if err := h.CatalogService.InvalidateCache(c.Request.Context()); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_catalog_cache_invalidated")
	response.Success(c, gin.H{"invalidated": true})
}
