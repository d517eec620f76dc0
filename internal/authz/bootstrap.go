package authz

const (
	RoleViewer  = "viewer"
	RoleManager = "manager"
)

type builtinRole struct {
	name     string
	inherits string
	routes   [][2]string
}

// viewer 只读订单，manager 在其基础上可改状态、支付标记与目录缓存
var builtinRoles = []builtinRole{
	{
		name: RoleViewer,
		routes: [][2]string{
			{"GET", "/admin/me"},
			{"GET", "/admin/orders"},
			{"GET", "/admin/orders/:id"},
		},
	},
	{
		name:     RoleManager,
		inherits: RoleViewer,
		routes: [][2]string{
			{"PATCH", "/admin/orders/:id/status"},
			{"PATCH", "/admin/orders/:id/paid"},
			{"DELETE", "/admin/catalog/cache"},
			{"GET", "/admin/authz/permissions"},
		},
	},
}

// BuiltinRoleNames 预置角色名
func BuiltinRoleNames() []string {
	names := make([]string, 0, len(builtinRoles))
	for _, role := range builtinRoles {
		names = append(names, role.name)
	}
	return names
}

// BootstrapBuiltinRoles 写入预置角色策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, role := range builtinRoles {
		for _, route := range role.routes {
			if err := s.AllowRole(role.name, route[1], route[0]); err != nil {
				return err
			}
		}
		if role.inherits != "" {
			if err := s.InheritRole(role.name, role.inherits); err != nil {
				return err
			}
		}
	}
	return nil
}
