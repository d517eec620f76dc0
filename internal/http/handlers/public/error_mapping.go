package public

import (
	"errors"
	"sort"

	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/catalog"
	handlershared "github.com/dpit-cms/internal/http/handlers/shared"
	"github.com/dpit-cms/internal/http/response"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: catalog.ErrUnknownItemType, code: response.CodeBadRequest, key: "error.item_type_invalid"},
	{target: cart.ErrItemUnavailable, code: response.CodeBadRequest, key: "error.item_unavailable"},
	{target: cart.ErrItemRequired, code: response.CodeBadRequest, key: "error.item_unavailable"},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_unavailable"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCartLoadFailed, code: response.CodeInternal, key: "error.cart_load_failed"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

func respondCheckoutError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondValidationError(c, verr)
		return
	}
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

// respondValidationError 返回按字段翻译后的校验错误
func respondValidationError(c *gin.Context, verr *service.ValidationError) {
	locale := i18n.ResolveLocale(c)
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = translateFieldError(locale, verr.Fields[name])
	}
	handlershared.RespondErrorWithData(c, response.CodeUnprocessable, "error.validation_failed", nil, gin.H{"fields": fields})
}

func translateFieldError(locale string, fe service.FieldError) string {
	switch fe.Rule {
	case "required", "email", "phone":
		return i18n.T(locale, "validation."+fe.Rule)
	case "max":
		return i18n.Sprintf(locale, "validation.max", fe.Param)
	default:
		return i18n.T(locale, "validation.invalid")
	}
}
