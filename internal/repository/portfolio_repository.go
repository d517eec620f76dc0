package repository

import (
	"errors"

	"github.com/dpit-cms/internal/models"

	"gorm.io/gorm"
)

// PortfolioRepository 作品集数据访问接口
type PortfolioRepository interface {
	GetByID(id uint) (*models.Portfolio, error)
	ListByIDs(ids []uint) ([]models.Portfolio, error)
	List(filter PortfolioListFilter) ([]models.Portfolio, int64, error)
	Create(item *models.Portfolio) error
}

// GormPortfolioRepository GORM 实现
type GormPortfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository 创建作品集仓库
func NewPortfolioRepository(db *gorm.DB) *GormPortfolioRepository {
	return &GormPortfolioRepository{db: db}
}

// GetByID 根据 ID 获取作品
func (r *GormPortfolioRepository) GetByID(id uint) (*models.Portfolio, error) {
	var item models.Portfolio
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByIDs 批量获取作品
func (r *GormPortfolioRepository) ListByIDs(ids []uint) ([]models.Portfolio, error) {
	if len(ids) == 0 {
		return []models.Portfolio{}, nil
	}
	var items []models.Portfolio
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List 作品集列表
func (r *GormPortfolioRepository) List(filter PortfolioListFilter) ([]models.Portfolio, int64, error) {
	query := r.db.Model(&models.Portfolio{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyOrderable {
		query = query.Where("is_available_for_order = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var items []models.Portfolio
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create 创建作品
func (r *GormPortfolioRepository) Create(item *models.Portfolio) error {
	return r.db.Create(item).Error
}
