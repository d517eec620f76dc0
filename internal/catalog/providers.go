package catalog

import (
	"context"

	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/repository"
)

// ServiceProvider 服务目录查询
type ServiceProvider struct {
	repo repository.ServiceRepository
}

// NewServiceProvider 创建服务目录查询
func NewServiceProvider(repo repository.ServiceRepository) *ServiceProvider {
	return &ServiceProvider{repo: repo}
}

// FindByIDs 批量查询服务
func (p *ServiceProvider) FindByIDs(ctx context.Context, ids []uint) (map[uint]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := p.repo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]Item, len(rows))
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

// GetByID 查询单个服务
func (p *ServiceProvider) GetByID(ctx context.Context, id uint) (Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := p.repo.GetByID(id)
	if err != nil || row == nil {
		return nil, err
	}
	return row, nil
}

// PortfolioProvider 作品集查询
type PortfolioProvider struct {
	repo repository.PortfolioRepository
}

// NewPortfolioProvider 创建作品集查询
func NewPortfolioProvider(repo repository.PortfolioRepository) *PortfolioProvider {
	return &PortfolioProvider{repo: repo}
}

// FindByIDs 批量查询作品
func (p *PortfolioProvider) FindByIDs(ctx context.Context, ids []uint) (map[uint]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := p.repo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]Item, len(rows))
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

// GetByID 查询单个作品
func (p *PortfolioProvider) GetByID(ctx context.Context, id uint) (Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := p.repo.GetByID(id)
	if err != nil || row == nil {
		return nil, err
	}
	return row, nil
}

// NewDefaultRegistry 注册服务与作品集两类目录项
func NewDefaultRegistry(services repository.ServiceRepository, portfolio repository.PortfolioRepository) *Registry {
	registry := NewRegistry()
	registry.Register(constants.ItemTypeService, NewServiceProvider(services))
	registry.Register(constants.ItemTypePortfolio, NewPortfolioProvider(portfolio))
	return registry
}
