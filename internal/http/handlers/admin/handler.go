package admin

import "github.com/dpit-cms/internal/provider"

// Handler 员工后台接口，路由已经过 casbin 授权
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
