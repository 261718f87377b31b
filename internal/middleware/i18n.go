package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/pkg/i18n"
)

// I18n detects the preferred language from Accept-Language and stores it
// under common.LocaleKey so the response envelope can translate messages.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		c.Set(common.LocaleKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}

// GetLocale returns the request locale (ko when unset)
func GetLocale(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(common.LocaleKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.LocaleKo
}
