package repository

import (
	"errors"

	"github.com/dpit-cms/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository 服务目录数据访问接口
type ServiceRepository interface {
	GetByID(id uint) (*models.Service, error)
	GetBySlug(slug string, onlyActive bool) (*models.Service, error)
	ListByIDs(ids []uint) ([]models.Service, error)
	List(filter ServiceListFilter) ([]models.Service, int64, error)
	Create(service *models.Service) error
	Update(service *models.Service) error
}

// GormServiceRepository GORM 实现
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务仓库
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// GetByID 根据 ID 获取服务
func (r *GormServiceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// GetBySlug 根据 slug 获取服务
func (r *GormServiceRepository) GetBySlug(slug string, onlyActive bool) (*models.Service, error) {
	var service models.Service
	query := r.db.Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// ListByIDs 批量获取服务，不存在的 ID 直接忽略
func (r *GormServiceRepository) ListByIDs(ids []uint) ([]models.Service, error) {
	if len(ids) == 0 {
		return []models.Service{}, nil
	}
	var services []models.Service
	if err := r.db.Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// List 服务列表
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, int64, error) {
	query := r.db.Model(&models.Service{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyPopular {
		query = query.Where("is_popular = ?", true)
	}
	query = searchColumns(query, filter.Search, "title", "slug", "short_description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var services []models.Service
	if err := query.Order("sort_order asc").Order("title asc").Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// Create 创建服务
func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

// Update 更新服务
func (r *GormServiceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}
