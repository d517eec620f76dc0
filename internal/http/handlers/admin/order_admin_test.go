package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/provider"
	"github.com/dpit-cms/internal/queue"
	"github.com/dpit-cms/internal/repository"
	"github.com/dpit-cms/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []queue.OrderStatusEmailPayload
}

func (n *recordingNotifier) EnqueueOrderCreatedNotify(queue.OrderCreatedNotifyPayload, ...asynq.Option) error {
	return nil
}

func (n *recordingNotifier) EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload, _ ...asynq.Option) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, payload)
	return nil
}

type adminTestEnv struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	notifier *recordingNotifier
	staff    *models.User
}

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	staff := &models.User{Email: "staff@example.com", PasswordHash: "x", IsStaff: true, IsActive: true}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if err := authzService.SetStaffRoles(staff.ID, []string{authz.RoleManager}); err != nil {
		t.Fatalf("set staff roles failed: %v", err)
	}

	notifier := &recordingNotifier{}
	orderRepo := repository.NewOrderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	container := &provider.Container{
		DB:             db,
		UserRepo:       repository.NewUserRepository(db),
		OrderRepo:      orderRepo,
		AuthzService:   authzService,
		CatalogService: service.NewCatalogService(serviceRepo, portfolioRepo),
		OrderService:   service.NewOrderService(orderRepo, notifier),
	}
	h := New(container)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, staff.ID)
		c.Set(constants.ContextKeyIsStaff, true)
		c.Next()
	})
	r.GET("/admin/me", h.GetAdminMe)
	r.GET("/admin/orders", h.AdminListOrders)
	r.GET("/admin/orders/:id", h.AdminGetOrder)
	r.PATCH("/admin/orders/:id/status", h.AdminUpdateOrderStatus)
	r.PATCH("/admin/orders/:id/paid", h.AdminUpdateOrderPaid)
	r.DELETE("/admin/catalog/cache", h.AdminInvalidateCatalogCache)

	return &adminTestEnv{t: t, db: db, engine: r, notifier: notifier, staff: staff}
}

func (e *adminTestEnv) do(method, path string, body interface{}) apiResponse {
	e.t.Helper()
	payload := []byte{}
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			e.t.Fatalf("marshal body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		e.t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func (e *adminTestEnv) createOrder(orderNo, email string) *models.Order {
	e.t.Helper()
	order := &models.Order{
		OrderNo:   orderNo,
		FirstName: "Anna",
		Email:     email,
		Phone:     "+70000000000",
		Status:    constants.OrderStatusNew,
	}
	items := []models.OrderItem{{
		ItemType:  constants.ItemTypeService,
		ItemID:    1,
		Title:     "Landing",
		PriceType: constants.PriceTypeFixed,
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		Currency:  constants.CurrencyRUB,
		Quantity:  2,
	}}
	if err := repository.NewOrderRepository(e.db).Create(order, items); err != nil {
		e.t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestAdminListOrdersFilters(t *testing.T) {
	env := newAdminTestEnv(t)
	env.createOrder("DP-A-1", "first@example.com")
	second := env.createOrder("DP-A-2", "second@example.com")
	if err := env.db.Model(&models.Order{}).Where("id = ?", second.ID).Update("paid", true).Error; err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	var orders []struct {
		OrderNo      string `json:"order_no"`
		TotalDisplay string `json:"total_display"`
	}
	resp := env.do(http.MethodGet, "/admin/orders", nil)
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatalf("decode orders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("want 2 orders got %d", len(orders))
	}

	resp = env.do(http.MethodGet, "/admin/orders?paid=true", nil)
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatalf("decode orders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNo != "DP-A-2" {
		t.Fatalf("paid filter failed: %+v", orders)
	}
	if orders[0].TotalDisplay != "2 000 ₽" {
		t.Fatalf("total display want 2 000 ₽ got %q", orders[0].TotalDisplay)
	}

	resp = env.do(http.MethodGet, "/admin/orders?email=FIRST@example.com", nil)
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatalf("decode orders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNo != "DP-A-1" {
		t.Fatalf("email filter failed: %+v", orders)
	}

	resp = env.do(http.MethodGet, "/admin/orders?paid=maybe", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("bad paid filter want 400 got %d", resp.StatusCode)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	env := newAdminTestEnv(t)
	order := env.createOrder("DP-S-1", "client@example.com")
	path := fmt.Sprintf("/admin/orders/%d/status", order.ID)

	cases := []struct {
		name   string
		status string
		want   int
	}{
		{name: "unknown status", status: "archived", want: 400},
		{name: "skip ahead", status: constants.OrderStatusCompleted, want: 409},
		{name: "confirm", status: constants.OrderStatusConfirmed, want: 0},
		{name: "same status is a no-op", status: constants.OrderStatusConfirmed, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(http.MethodPatch, path, gin.H{"status": tc.status})
			if resp.StatusCode != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, resp.StatusCode)
			}
		})
	}
	if len(env.notifier.statuses) != 1 {
		t.Fatalf("one status email expected, got %d", len(env.notifier.statuses))
	}

	resp := env.do(http.MethodPatch, "/admin/orders/9999/status", gin.H{"status": constants.OrderStatusConfirmed})
	if resp.StatusCode != 404 {
		t.Fatalf("missing order want 404 got %d", resp.StatusCode)
	}
}

func TestAdminUpdateOrderPaid(t *testing.T) {
	env := newAdminTestEnv(t)
	order := env.createOrder("DP-P-1", "client@example.com")
	path := fmt.Sprintf("/admin/orders/%d/paid", order.ID)

	resp := env.do(http.MethodPatch, path, gin.H{})
	if resp.StatusCode != 400 {
		t.Fatalf("missing paid want 400 got %d", resp.StatusCode)
	}
	resp = env.do(http.MethodPatch, path, gin.H{"paid": true})
	if resp.StatusCode != 0 {
		t.Fatalf("mark paid want 0 got %d", resp.StatusCode)
	}
	var stored models.Order
	if err := env.db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !stored.Paid {
		t.Fatalf("order should be paid")
	}
	if len(env.notifier.statuses) != 1 || env.notifier.statuses[0].Paid == nil || !*env.notifier.statuses[0].Paid {
		t.Fatalf("paid email payload missing: %+v", env.notifier.statuses)
	}
}

func TestGetAdminMe(t *testing.T) {
	env := newAdminTestEnv(t)
	resp := env.do(http.MethodGet, "/admin/me", nil)
	var data struct {
		Roles       []string       `json:"roles"`
		Permissions []authz.Policy `json:"permissions"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode me failed: %v", err)
	}
	if len(data.Roles) != 1 || data.Roles[0] != authz.RoleManager {
		t.Fatalf("unexpected roles: %+v", data.Roles)
	}
	canUpdateStatus := false
	for _, p := range data.Permissions {
		if p.Action == http.MethodPatch && p.Object == "/admin/orders/:id/status" {
			canUpdateStatus = true
		}
	}
	if !canUpdateStatus {
		t.Fatalf("manager permissions missing status update: %+v", data.Permissions)
	}

	resp = env.do(http.MethodDelete, "/admin/catalog/cache", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("cache invalidation want 0 got %d", resp.StatusCode)
	}
}
