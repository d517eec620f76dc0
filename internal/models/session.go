package models

import "time"

// Session 数据库会话表（database 会话后端使用）
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Data      string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}
