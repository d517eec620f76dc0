package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dpit-cms/internal/catalog"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/provider"
	"github.com/dpit-cms/internal/repository"
	"github.com/dpit-cms/internal/service"
	"github.com/dpit-cms/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testSessionCookie = "sid"

type handlerTestEnv struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	cookie  string
	userID  *uint
	handler *Handler
	store   *switchableStore
}

// switchableStore 内存会话存储，saveErr 非空时写入失败
type switchableStore struct {
	*session.MemoryStore
	saveErr error
}

func (s *switchableStore) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, sess, ttl)
}

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
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

	cfg := &config.Config{
		Cart:    config.CartConfig{SessionKey: "cart", MaxQuantity: 99},
		Captcha: config.CaptchaConfig{Provider: constants.CaptchaProviderNone},
	}
	serviceRepo := repository.NewServiceRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	store := &switchableStore{MemoryStore: session.NewMemoryStore()}
	userRepo := repository.NewUserRepository(db)
	container := &provider.Container{
		Config:          cfg,
		DB:              db,
		UserRepo:        userRepo,
		ServiceRepo:     serviceRepo,
		PortfolioRepo:   portfolioRepo,
		OrderRepo:       orderRepo,
		Catalog:         catalog.NewDefaultRegistry(serviceRepo, portfolioRepo),
		SessionManager:  session.NewManager(store, session.Options{CookieName: testSessionCookie}),
		CaptchaService:  service.NewCaptchaService(cfg.Captcha),
		UserAuthService: service.NewUserAuthService(config.JWTConfig{SecretKey: "test-secret"}, userRepo),
		CatalogService:  service.NewCatalogService(serviceRepo, portfolioRepo),
		CheckoutService: service.NewCheckoutService(db, orderRepo, nil, "DP"),
		OrderService:    service.NewOrderService(orderRepo, nil),
	}
	env := &handlerTestEnv{t: t, db: db, handler: New(container), store: store}
	env.engine = env.buildEngine(container.SessionManager)
	return env
}

func (e *handlerTestEnv) buildEngine(manager *session.Manager) *gin.Engine {
	h := e.handler
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if e.userID != nil {
			c.Set(constants.ContextKeyUserID, *e.userID)
		}
		cookieID, _ := c.Cookie(testSessionCookie)
		sess := manager.Load(c.Request.Context(), cookieID)
		c.Set(constants.ContextKeySession, sess)
		c.Header("X-Test-Session", sess.ID())
		c.Next()
		if err := manager.Save(c.Request.Context(), sess); err != nil && e.store.saveErr == nil {
			e.t.Errorf("save session failed: %v", err)
		}
	})
	r.GET("/services", h.ListServices)
	r.GET("/services/:slug", h.GetService)
	r.GET("/portfolio", h.ListPortfolio)
	r.GET("/captcha/config", h.GetCaptchaConfig)
	r.POST("/auth/login", h.UserLogin)
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.DELETE("/cart/items/:item_type/:item_id", h.RemoveCartItem)
	r.POST("/checkout", h.Checkout)
	r.GET("/orders/:order_no", h.GetOrder)
	r.GET("/me/checkout-prefill", h.GetCheckoutPrefill)
	r.GET("/me/orders", h.ListMyOrders)
	return r
}

// do 发送请求并在多次调用间保持会话 Cookie
func (e *handlerTestEnv) do(method, path string, body interface{}) apiResponse {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	if e.cookie != "" {
		req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: e.cookie})
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		e.t.Fatalf("http status want 200 got %d", w.Code)
	}
	if id := w.Header().Get("X-Test-Session"); id != "" {
		e.cookie = id
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		e.t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func (e *handlerTestEnv) createFixedService(slug string, price int64) *models.Service {
	e.t.Helper()
	svc := &models.Service{
		Title:      "Service " + slug,
		Slug:       slug,
		PriceType:  constants.PriceTypeFixed,
		PriceFixed: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:   constants.CurrencyRUB,
		IsActive:   true,
	}
	if err := e.db.Create(svc).Error; err != nil {
		e.t.Fatalf("create service failed: %v", err)
	}
	return svc
}

func (e *handlerTestEnv) createNegotiableService(slug string) *models.Service {
	e.t.Helper()
	svc := &models.Service{
		Title:     "Service " + slug,
		Slug:      slug,
		PriceType: constants.PriceTypeNegotiable,
		Currency:  constants.CurrencyRUB,
		IsActive:  true,
	}
	if err := e.db.Create(svc).Error; err != nil {
		e.t.Fatalf("create service failed: %v", err)
	}
	return svc
}

func decodeData(t *testing.T, resp apiResponse, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(resp.Data))
	}
}
