package cart

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dpit-cms/internal/catalog"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/session"

	"github.com/shopspring/decimal"
)

// LineKey 购物车行唯一键
type LineKey struct {
	ItemType string
	ItemID   uint
}

// String 会话中的存储键，如 service_12
func (k LineKey) String() string {
	return fmt.Sprintf("%s_%d", k.ItemType, k.ItemID)
}

// Line 购物车行，价格为加入时的快照
type Line struct {
	ItemType  string          `json:"item_type"`
	ItemID    uint            `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	PriceType string          `json:"price_type"`
	PriceMin  decimal.Decimal `json:"price_min"`
	PriceMax  decimal.Decimal `json:"price_max"`
	Currency  string          `json:"currency"`
}

// Key 行唯一键
func (l Line) Key() LineKey {
	return LineKey{ItemType: l.ItemType, ItemID: l.ItemID}
}

// IsFlexible 区间价或协商价
func (l Line) IsFlexible() bool {
	return l.PriceType != constants.PriceTypeFixed
}

// Total 固定价行小计，其余为 0
func (l Line) Total() decimal.Decimal {
	if l.PriceType != constants.PriceTypeFixed {
		return decimal.Zero
	}
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineDetail 关联了目录项的购物车行
type LineDetail struct {
	Line
	Item         catalog.Item    `json:"-"`
	Title        string          `json:"title"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	PriceDisplay string          `json:"price_display"`
	TotalDisplay string          `json:"total_display"`
}

// Summary 购物车汇总
type Summary struct {
	Lines             []LineDetail    `json:"lines"`
	Length            int             `json:"length"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	TotalDisplay      string          `json:"total_display"`
	Currency          string          `json:"currency"`
	HasFlexiblePrices bool            `json:"has_flexible_prices"`
}

// Cart 基于会话的购物车
type Cart struct {
	sess        *session.Session
	resolver    catalog.Resolver
	key         string
	maxQuantity int
	lines       map[LineKey]*Line
}

// Option 购物车选项
type Option func(*Cart)

// WithSessionKey 自定义会话存储键
func WithSessionKey(key string) Option {
	return func(c *Cart) {
		if strings.TrimSpace(key) != "" {
			c.key = strings.TrimSpace(key)
		}
	}
}

// WithMaxQuantity 单行数量上限，0 表示不限制
func WithMaxQuantity(max int) Option {
	return func(c *Cart) {
		if max > 0 {
			c.maxQuantity = max
		}
	}
}

// New 从会话加载购物车，会话中无购物车时为空
func New(sess *session.Session, resolver catalog.Resolver, opts ...Option) (*Cart, error) {
	if sess == nil {
		return nil, fmt.Errorf("cart requires a session")
	}
	c := &Cart{
		sess:     sess,
		resolver: resolver,
		key:      constants.DefaultCartSessionKey,
		lines:    make(map[LineKey]*Line),
	}
	for _, opt := range opts {
		opt(c)
	}

	stored := map[string]Line{}
	if _, err := sess.Get(c.key, &stored); err != nil {
		logger.Warnw("cart_session_decode_failed", "session_key", c.key, "error", err)
		stored = map[string]Line{}
	}
	for _, line := range stored {
		line.ItemType = strings.ToLower(strings.TrimSpace(line.ItemType))
		if line.ItemType == "" || line.ItemID == 0 || line.Quantity <= 0 {
			continue
		}
		if line.PriceType = models.NormalizePriceType(line.PriceType); line.PriceType == "" {
			line.PriceType = constants.PriceTypeNegotiable
		}
		line.Currency = models.NormalizeCurrency(line.Currency)
		l := line
		c.lines[l.Key()] = &l
	}
	return c, nil
}

// Add 加入目录项，override 为 true 时覆盖数量，否则累加
func (c *Cart) Add(item catalog.Item, itemType string, quantity int, override bool) error {
	if item == nil {
		return ErrItemRequired
	}
	key := LineKey{ItemType: strings.ToLower(strings.TrimSpace(itemType)), ItemID: item.ItemID()}
	line, ok := c.lines[key]
	if !ok {
		line = snapshotLine(key, item)
		c.lines[key] = line
	}
	if override {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}
	if line.Quantity <= 0 {
		delete(c.lines, key)
	} else if c.maxQuantity > 0 && line.Quantity > c.maxQuantity {
		line.Quantity = c.maxQuantity
	}
	return c.save()
}

func snapshotLine(key LineKey, item catalog.Item) *Line {
	pricing := item.Pricing()
	line := &Line{
		ItemType:  key.ItemType,
		ItemID:    key.ItemID,
		PriceType: pricing.Type,
		Price:     decimal.Zero,
		PriceMin:  decimal.Zero,
		PriceMax:  decimal.Zero,
		Currency:  models.NormalizeCurrency(pricing.Currency),
	}
	switch pricing.Type {
	case constants.PriceTypeFixed:
		line.Price = pricing.Fixed
	case constants.PriceTypeRange:
		line.PriceMin = pricing.Min
		line.PriceMax = pricing.Max
	default:
		line.PriceType = constants.PriceTypeNegotiable
	}
	return line
}

// Remove 移除购物车行，不存在时忽略
func (c *Cart) Remove(itemType string, itemID uint) error {
	key := LineKey{ItemType: strings.ToLower(strings.TrimSpace(itemType)), ItemID: itemID}
	if _, ok := c.lines[key]; !ok {
		return nil
	}
	delete(c.lines, key)
	return c.save()
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.lines = make(map[LineKey]*Line)
	c.sess.Delete(c.key)
}

// Lines 已存储的行（按类型与 ID 排序的副本）
func (c *Cart) Lines() []Line {
	keys := c.sortedKeys()
	out := make([]Line, 0, len(keys))
	for _, key := range keys {
		out = append(out, *c.lines[key])
	}
	return out
}

// StoredQuantity 会话中的数量合计，不查询目录，可能包含失效行
func (c *Cart) StoredQuantity() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty 会话中没有任何行
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Iterate 关联目录项后的购物车行，失效行被跳过并从会话中移除
func (c *Cart) Iterate(ctx context.Context) ([]LineDetail, error) {
	if len(c.lines) == 0 {
		return []LineDetail{}, nil
	}
	if c.resolver == nil {
		return nil, ErrResolverRequired
	}

	byType := make(map[string][]uint)
	for key := range c.lines {
		byType[key.ItemType] = append(byType[key.ItemType], key.ItemID)
	}

	found := make(map[LineKey]catalog.Item, len(c.lines))
	for itemType, ids := range byType {
		provider, err := c.resolver.Provider(itemType)
		if err != nil {
			logger.Warnw("cart_unknown_item_type", "item_type", itemType, "error", err)
			continue
		}
		items, err := provider.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for id, item := range items {
			found[LineKey{ItemType: itemType, ItemID: id}] = item
		}
	}

	keys := c.sortedKeys()
	details := make([]LineDetail, 0, len(keys))
	pruned := false
	for _, key := range keys {
		item, ok := found[key]
		if !ok || item == nil {
			delete(c.lines, key)
			pruned = true
			logger.Infow("cart_dangling_line_pruned", "item_type", key.ItemType, "item_id", key.ItemID)
			continue
		}
		details = append(details, buildDetail(*c.lines[key], item))
	}
	if pruned {
		if err := c.save(); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func buildDetail(line Line, item catalog.Item) LineDetail {
	return LineDetail{
		Line:         line,
		Item:         item,
		Title:        item.ItemTitle(),
		TotalPrice:   line.Total(),
		PriceDisplay: DisplayPrice(line.PriceType, line.Price, line.PriceMin, line.PriceMax, line.Currency),
		TotalDisplay: DisplayTotal(line.PriceType, line.Price, line.PriceMin, line.PriceMax, line.Currency, line.Quantity),
	}
}

// Len 有效行的数量合计
func (c *Cart) Len(ctx context.Context) (int, error) {
	details, err := c.Iterate(ctx)
	if err != nil {
		return 0, err
	}
	return sumQuantity(details), nil
}

// TotalPrice 有效固定价行的金额合计
func (c *Cart) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	details, err := c.Iterate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return sumTotal(details), nil
}

// HasFlexiblePrices 是否存在区间价或协商价的有效行
func (c *Cart) HasFlexiblePrices(ctx context.Context) (bool, error) {
	details, err := c.Iterate(ctx)
	if err != nil {
		return false, err
	}
	return hasFlexible(details), nil
}

// Summary 一次查询得到明细与汇总
func (c *Cart) Summary(ctx context.Context) (*Summary, error) {
	details, err := c.Iterate(ctx)
	if err != nil {
		return nil, err
	}
	total := sumTotal(details)
	currency := summaryCurrency(details)
	return &Summary{
		Lines:             details,
		Length:            sumQuantity(details),
		TotalPrice:        total,
		TotalDisplay:      FormatPrice(total, currency),
		Currency:          currency,
		HasFlexiblePrices: hasFlexible(details),
	}, nil
}

func sumQuantity(details []LineDetail) int {
	total := 0
	for _, d := range details {
		total += d.Quantity
	}
	return total
}

func sumTotal(details []LineDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.TotalPrice)
	}
	return total
}

func hasFlexible(details []LineDetail) bool {
	for _, d := range details {
		if d.IsFlexible() {
			return true
		}
	}
	return false
}

// summaryCurrency 取第一条固定价行的币种，混合币种时仍以其为准
func summaryCurrency(details []LineDetail) string {
	for _, d := range details {
		if !d.IsFlexible() {
			return d.Currency
		}
	}
	return constants.CurrencyRUB
}

func (c *Cart) sortedKeys() []LineKey {
	keys := make([]LineKey, 0, len(c.lines))
	for key := range c.lines {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemType != keys[j].ItemType {
			return keys[i].ItemType < keys[j].ItemType
		}
		return keys[i].ItemID < keys[j].ItemID
	})
	return keys
}

func (c *Cart) save() error {
	stored := make(map[string]Line, len(c.lines))
	for key, line := range c.lines {
		stored[key.String()] = *line
	}
	return c.sess.Set(c.key, stored)
}
