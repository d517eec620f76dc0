package models

import (
	"errors"
	"strings"

	"github.com/dpit-cms/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultStaffPassword = "admin123"

// InitDefaultStaff 初始化默认员工账号，已存在时仅确保员工标记
func InitDefaultStaff(db *gorm.DB, email, password string) (*User, error) {
	if db == nil {
		db = DB
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@example.com"
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsStaff {
			if err := db.Model(&existing).Update("is_staff", true).Error; err != nil {
				logger.Warnw("ensure_default_staff_flag_failed", "email", email, "error", err)
			}
			existing.IsStaff = true
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if password == "" {
		password = defaultStaffPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		IsStaff:      true,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == defaultStaffPassword {
		logger.Warnw("default_staff_created_with_default_password", "email", email)
	} else {
		logger.Infow("default_staff_created", "email", email)
	}
	return &user, nil
}
