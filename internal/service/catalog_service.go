package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dpit-cms/internal/cache"
	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/repository"
)

const catalogCacheTTL = 60 * time.Second

// ServiceView 公开服务视图
type ServiceView struct {
	models.Service
	PriceDisplay string `json:"price_display"`
}

// PortfolioView 公开作品视图
type PortfolioView struct {
	models.Portfolio
	PriceDisplay string `json:"price_display"`
}

// ServiceListResult 服务列表缓存结构
type ServiceListResult struct {
	Items []ServiceView `json:"items"`
	Total int64         `json:"total"`
}

// PortfolioListResult 作品列表缓存结构
type PortfolioListResult struct {
	Items []PortfolioView `json:"items"`
	Total int64           `json:"total"`
}

// CatalogService 公开目录查询
type CatalogService struct {
	serviceRepo   repository.ServiceRepository
	portfolioRepo repository.PortfolioRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(serviceRepo repository.ServiceRepository, portfolioRepo repository.PortfolioRepository) *CatalogService {
	return &CatalogService{
		serviceRepo:   serviceRepo,
		portfolioRepo: portfolioRepo,
	}
}

// ListServices 上架服务列表，第一页命中 Redis 缓存
func (s *CatalogService) ListServices(ctx context.Context, filter repository.ServiceListFilter) (*ServiceListResult, error) {
	filter.OnlyActive = true
	filter.Search = strings.TrimSpace(filter.Search)
	cacheable := filter.Search == "" && !filter.OnlyPopular && filter.Page <= 1
	key := fmt.Sprintf("%s:%d", constants.CacheKeyServiceList, filter.PageSize)
	if cacheable {
		var cached ServiceListResult
		if hit, err := cache.GetJSON(ctx, key, &cached); err != nil {
			logger.Warnw("catalog_cache_get_failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	services, total, err := s.serviceRepo.List(filter)
	if err != nil {
		return nil, ErrCatalogFetchFailed
	}
	result := &ServiceListResult{Items: make([]ServiceView, 0, len(services)), Total: total}
	for i := range services {
		result.Items = append(result.Items, toServiceView(&services[i]))
	}
	if cacheable {
		if err := cache.SetJSON(ctx, key, result, catalogCacheTTL); err != nil {
			logger.Warnw("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return result, nil
}

// GetServiceBySlug 服务详情
func (s *CatalogService) GetServiceBySlug(slug string) (*ServiceView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrServiceNotFound
	}
	service, err := s.serviceRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, ErrCatalogFetchFailed
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}
	view := toServiceView(service)
	return &view, nil
}

// ListPortfolio 上架作品列表
func (s *CatalogService) ListPortfolio(ctx context.Context, filter repository.PortfolioListFilter) (*PortfolioListResult, error) {
	filter.OnlyActive = true
	cacheable := !filter.OnlyOrderable && filter.Page <= 1
	key := fmt.Sprintf("%s:%d", constants.CacheKeyPortfolioList, filter.PageSize)
	if cacheable {
		var cached PortfolioListResult
		if hit, err := cache.GetJSON(ctx, key, &cached); err != nil {
			logger.Warnw("catalog_cache_get_failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	items, total, err := s.portfolioRepo.List(filter)
	if err != nil {
		return nil, ErrCatalogFetchFailed
	}
	result := &PortfolioListResult{Items: make([]PortfolioView, 0, len(items)), Total: total}
	for i := range items {
		result.Items = append(result.Items, toPortfolioView(&items[i]))
	}
	if cacheable {
		if err := cache.SetJSON(ctx, key, result, catalogCacheTTL); err != nil {
			logger.Warnw("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return result, nil
}

// InvalidateCache 目录变更后清理全部列表缓存
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	deleted, err := cache.DelByPrefix(ctx, constants.CacheKeyCatalogPrefix)
	if err != nil {
		return err
	}
	logger.Infow("catalog_cache_invalidated", "keys", deleted)
	return nil
}

func toServiceView(service *models.Service) ServiceView {
	return ServiceView{
		Service:      *service,
		PriceDisplay: cart.DisplayPricing(service.Pricing()),
	}
}

func toPortfolioView(item *models.Portfolio) PortfolioView {
	return PortfolioView{
		Portfolio:    *item,
		PriceDisplay: cart.DisplayPricing(item.Pricing()),
	}
}
