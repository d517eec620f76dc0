package constants

// 可下单目录项类型
const (
	ItemTypeService   = "service"
	ItemTypePortfolio = "portfolio"
)

// 价格模式
const (
	PriceTypeFixed      = "fixed"
	PriceTypeRange      = "range"
	PriceTypeNegotiable = "negotiable"
)

// 订单状态常量
const (
	OrderStatusNew        = "new"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// 币种常量
const (
	CurrencyRUB = "RUB"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyKZT = "KZT"
)

// 会话常量
const (
	SessionBackendRedis    = "redis"
	SessionBackendDatabase = "database"
	DefaultCartSessionKey  = "cart"
	SessionKeyLastOrder    = "last_order_no"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneCheckout = "checkout"
	CaptchaSceneLogin    = "login"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderCreatedNotify = "order:created_notify"
	TaskOrderStatusEmail   = "order:status_email"
	TaskSessionCleanup     = "session:cleanup"
)

// 缓存 key
const (
	CacheKeyCatalogPrefix = "catalog:"
	CacheKeyServiceList   = "catalog:services"
	CacheKeyPortfolioList = "catalog:portfolio"
)

// gin 上下文 key
const (
	ContextKeyRequestID = "request_id"
	ContextKeySession   = "session"
	ContextKeyUserID    = "user_id"
	ContextKeyIsStaff   = "is_staff"
)
