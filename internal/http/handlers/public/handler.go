package public

import "github.com/dpit-cms/internal/provider"

// Handler 访客与登录用户接口：目录、购物车、结算、订单回执
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
