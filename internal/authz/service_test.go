package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceStaffWithCustomRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.AllowRole("Order Desk", "/api/v1/admin/orders/:id", "get"); err != nil {
		t.Fatalf("allow role failed: %v", err)
	}
	if err := svc.SetStaffRoles(1, []string{"order desk"}); err != nil {
		t.Fatalf("set staff roles failed: %v", err)
	}

	allow, err := svc.EnforceStaff(1, "/api/v1/admin/orders/42", "get")
	if err != nil || !allow {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceStaff(1, "/api/v1/admin/orders/42", "PATCH")
	if err != nil || allow {
		t.Fatalf("expected deny, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceStaff(0, "/admin/orders/42", "GET")
	if err != nil || allow {
		t.Fatalf("zero staff id must be denied, got allow=%v err=%v", allow, err)
	}
}

func TestSetStaffRolesRejectsUnknownRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.SetStaffRoles(5, []string{RoleViewer}); err != nil {
		t.Fatalf("set viewer failed: %v", err)
	}
	err := svc.SetStaffRoles(5, []string{RoleViewer, "accountant"})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("want ErrUnknownRole got %v", err)
	}
	roles, err := svc.GetStaffRoles(5)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleViewer {
		t.Fatalf("rejected update must keep roles, got %v", roles)
	}
}

func TestSetStaffRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.SetStaffRoles(2, []string{RoleManager}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetStaffRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleManager {
		t.Fatalf("roles want [manager], got=%v", roles)
	}

	if err := svc.SetStaffRoles(2, []string{RoleViewer}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	allow, err := svc.EnforceStaff(2, "/admin/orders/5/status", "PATCH")
	if err != nil || allow {
		t.Fatalf("expected manager permission removed, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceStaff(2, "/admin/orders", "GET")
	if err != nil || !allow {
		t.Fatalf("expected viewer permission granted, allow=%v err=%v", allow, err)
	}
}

func TestStaffPermissionsIncludeInherited(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.SetStaffRoles(7, []string{RoleManager}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	perms, err := svc.StaffPermissions(7)
	if err != nil {
		t.Fatalf("staff permissions failed: %v", err)
	}
	got := map[string]string{}
	for _, p := range perms {
		got[p.Action+" "+p.Object] = p.Subject
	}
	if got["GET /admin/orders"] != RoleViewer {
		t.Fatalf("inherited viewer permission missing: %v", got)
	}
	if got["PATCH /admin/orders/:id/paid"] != RoleManager {
		t.Fatalf("manager permission missing: %v", got)
	}

	none, err := svc.StaffPermissions(8)
	if err != nil {
		t.Fatalf("staff permissions for unknown staff failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("staff without roles has permissions: %v", none)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行不报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if err := svc.SetStaffRoles(3, BuiltinRoleNames()[1:]); err != nil {
		t.Fatalf("set staff roles failed: %v", err)
	}
	allow, err := svc.EnforceStaff(3, "/api/v1/admin/orders/9", "GET")
	if err != nil || !allow {
		t.Fatalf("expected inherited viewer permission, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceStaff(3, "/api/v1/admin/orders/9/paid", "PATCH")
	if err != nil || !allow {
		t.Fatalf("expected manager write permission, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceStaff(4, "/api/v1/admin/orders", "GET")
	if err != nil || allow {
		t.Fatalf("staff without roles must be denied, allow=%v err=%v", allow, err)
	}
}
