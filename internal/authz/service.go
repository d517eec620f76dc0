package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	staffSubjectFmt = "staff:%d"
	roleSubjectFmt  = "role:%s"
)

// 后台订单管理的 RBAC 模型，资源按 gin 路由模板匹配
const orderAdminModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

var (
	ErrUnavailable = errors.New("authz service unavailable")
	ErrUnknownRole = errors.New("unknown staff role")
)

// Policy 权限策略，Subject 为角色名
type Policy struct {
	Subject string `json:"role,omitempty"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 后台员工授权
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略持久化在 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(orderAdminModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceStaff 判断员工能否以 action 访问路由模板 object
func (s *Service) EnforceStaff(userID uint, object, action string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if userID == 0 {
		return false, nil
	}
	return s.enforcer.Enforce(staffSubject(userID), NormalizeObject(object), NormalizeAction(action))
}

// AllowRole 为角色开放一条路由权限，可重复执行
func (s *Service) AllowRole(role, object, action string) error {
	if err := s.ready(); err != nil {
		return err
	}
	subject, err := roleSubject(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return fmt.Errorf("action is required")
	}
	if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("allow role failed: %w", err)
	}
	return nil
}

// InheritRole 角色 child 继承 parent 的全部权限
func (s *Service) InheritRole(child, parent string) error {
	if err := s.ready(); err != nil {
		return err
	}
	childSubject, err := roleSubject(child)
	if err != nil {
		return err
	}
	parentSubject, err := roleSubject(parent)
	if err != nil {
		return err
	}
	if _, err := s.enforcer.AddGroupingPolicy(childSubject, parentSubject); err != nil {
		return fmt.Errorf("link role inheritance failed: %w", err)
	}
	return nil
}

// SetStaffRoles 覆盖员工角色，只接受已定义权限的角色
func (s *Service) SetStaffRoles(userID uint, roles []string) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	subjects := make([]string, 0, len(roles))
	for _, role := range roles {
		subject, err := roleSubject(role)
		if err != nil {
			return err
		}
		known, err := s.roleDefined(subject)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
		subjects = append(subjects, subject)
	}

	staff := staffSubject(userID)
	if _, err := s.enforcer.RemoveFilteredGroupingPolicy(0, staff); err != nil {
		return fmt.Errorf("clear staff roles failed: %w", err)
	}
	for _, subject := range subjects {
		if _, err := s.enforcer.AddGroupingPolicy(staff, subject); err != nil {
			return fmt.Errorf("assign staff role failed: %w", err)
		}
	}
	return nil
}

func (s *Service) roleDefined(subject string) (bool, error) {
	policies, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return true, nil
	}
	parents, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return false, err
	}
	return len(parents) > 0, nil
}

// GetStaffRoles 员工直接拥有的角色名，已排序
func (s *Service) GetStaffRoles(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	subjects, err := s.enforcer.GetRolesForUser(staffSubject(userID))
	if err != nil {
		return nil, fmt.Errorf("get staff roles failed: %w", err)
	}
	roles := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		if name, ok := roleName(subject); ok {
			roles = append(roles, name)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// StaffPermissions 员工经角色继承后可用的全部路由权限
func (s *Service) StaffPermissions(userID uint) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetImplicitPermissionsForUser(staffSubject(userID))
	if err != nil {
		return nil, fmt.Errorf("get staff permissions failed: %w", err)
	}
	seen := make(map[string]struct{}, len(rules))
	out := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		key := rule[2] + " " + rule[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		name, _ := roleName(rule[0])
		out = append(out, Policy{Subject: name, Object: rule[1], Action: rule[2]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Object != out[j].Object {
			return out[i].Object < out[j].Object
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

func staffSubject(userID uint) string {
	return fmt.Sprintf(staffSubjectFmt, userID)
}

func roleSubject(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, "role:")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "", fmt.Errorf("role is required")
	}
	return fmt.Sprintf(roleSubjectFmt, name), nil
}

func roleName(subject string) (string, bool) {
	if !strings.HasPrefix(subject, "role:") {
		return "", false
	}
	return strings.TrimPrefix(subject, "role:"), true
}

// NormalizeObject 统一授权资源路径，去掉 /api/v1 前缀
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
