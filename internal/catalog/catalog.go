package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dpit-cms/internal/models"
)

var (
	// ErrUnknownItemType 未注册的目录项类型
	ErrUnknownItemType = errors.New("unknown catalog item type")
)

// Item 可下单目录项
type Item interface {
	ItemID() uint
	ItemTitle() string
	AvailableForOrder() bool
	Pricing() models.Pricing
}

// Provider 单一类型目录项的查询接口
type Provider interface {
	// FindByIDs 批量查询，不存在的 ID 不出现在结果中
	FindByIDs(ctx context.Context, ids []uint) (map[uint]Item, error)
	GetByID(ctx context.Context, id uint) (Item, error)
}

// Resolver 按类型解析目录项
type Resolver interface {
	Provider(itemType string) (Provider, error)
}

// Registry 目录项类型注册表
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register 注册目录项类型
func (r *Registry) Register(itemType string, provider Provider) {
	key := normalizeType(itemType)
	if key == "" || provider == nil {
		return
	}
	r.mu.Lock()
	r.providers[key] = provider
	r.mu.Unlock()
}

// Provider 获取类型对应的查询接口
func (r *Registry) Provider(itemType string) (Provider, error) {
	key := normalizeType(itemType)
	r.mu.RLock()
	provider, ok := r.providers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItemType, itemType)
	}
	return provider, nil
}

// Types 已注册的类型（有序）
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.providers))
	for key := range r.providers {
		types = append(types, key)
	}
	sort.Strings(types)
	return types
}

func normalizeType(itemType string) string {
	return strings.ToLower(strings.TrimSpace(itemType))
}
