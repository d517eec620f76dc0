package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleRU      = "ru"
	LocaleEN      = "en"
	DefaultLocale = LocaleRU
)

// ResolveLocale 解析请求语言：lang 查询参数优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := NormalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := NormalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，不支持的语言返回空
func NormalizeLocale(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
	if _, ok := catalogs[base]; ok {
		return base
	}
	return ""
}

// T 翻译消息 key，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
