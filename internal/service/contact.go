package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s()\-]*\d[\d\s()\-]*$`)

var (
	contactValidatorOnce sync.Once
	contactValidator     *validator.Validate
)

// ContactInput 结算联系人信息
type ContactInput struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,max=20,phone"`
	Company   string `json:"company" validate:"max=100"`
	Comment   string `json:"comment" validate:"max=5000"`
}

// Normalize 去除首尾空白并统一邮箱大小写
func (c ContactInput) Normalize() ContactInput {
	return ContactInput{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:     strings.TrimSpace(c.Phone),
		Company:   strings.TrimSpace(c.Company),
		Comment:   strings.TrimSpace(c.Comment),
	}
}

// ValidateContact 校验联系人信息，失败时返回 *ValidationError
func ValidateContact(input ContactInput) error {
	err := getContactValidator().Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	result := &ValidationError{Fields: make(map[string]FieldError, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, exists := result.Fields[fe.Field()]; exists {
			continue
		}
		result.Fields[fe.Field()] = FieldError{Rule: fe.Tag(), Param: fe.Param()}
	}
	return result
}

func getContactValidator() *validator.Validate {
	contactValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		contactValidator = v
	})
	return contactValidator
}
