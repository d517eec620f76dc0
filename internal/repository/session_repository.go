package repository

import (
	"errors"
	"time"

	"github.com/dpit-cms/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository 会话数据访问接口
type SessionRepository interface {
	Get(id string, now time.Time) (*models.Session, error)
	Save(session *models.Session) error
	Delete(id string) error
	DeleteExpired(now time.Time) (int64, error)
}

// GormSessionRepository GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Get 获取未过期的会话
func (r *GormSessionRepository) Get(id string, now time.Time) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ? AND expires_at > ?", id, now).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Save 写入会话（存在则覆盖数据与过期时间）
func (r *GormSessionRepository) Save(session *models.Session) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(session).Error
}

// Delete 删除会话
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteExpired 清理过期会话
func (r *GormSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
