package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FirstName    string         `gorm:"type:varchar(50)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(50)" json:"last_name"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`
	Company      string         `gorm:"type:varchar(100)" json:"company"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
