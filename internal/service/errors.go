package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrCartLoadFailed         = errors.New("cart load failed")
	ErrValidation             = errors.New("validation failed")
	ErrOrderCreateFailed      = errors.New("order create failed")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusInvalid     = errors.New("order status invalid")
	ErrOrderTransitionInvalid = errors.New("order status transition invalid")
	ErrOrderUpdateFailed      = errors.New("order update failed")
	ErrServiceNotFound        = errors.New("service not found")
	ErrCatalogFetchFailed     = errors.New("catalog fetch failed")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserDisabled           = errors.New("user disabled")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidEmail           = errors.New("invalid email")
	ErrInvalidToken           = errors.New("invalid token")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError 表单校验失败，按字段记录原因
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Unwrap 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
