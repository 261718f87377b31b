package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/pkg/i18n"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
)

// CodeSuccess is the result code of every successful response
const CodeSuccess = "S000"

// LocaleKey is the gin context key holding the request i18n.Locale
const LocaleKey = "locale"

// ResultCodeKey is the gin context key holding the written result code (metrics)
const ResultCodeKey = "result_code"

// APIResponse is the uniform envelope. Transport status is always 200;
// errors are reported through ResultCode.
type APIResponse struct {
	ResultCode    string      `json:"result_code"`
	ResultMessage string      `json:"result_message"`
	Response      interface{} `json:"response"`
	ResponseDate  time.Time   `json:"response_date"`
}

// Success writes a successful envelope
func Success(c *gin.Context, data interface{}) {
	c.Set(ResultCodeKey, CodeSuccess)
	c.JSON(http.StatusOK, APIResponse{
		ResultCode:    CodeSuccess,
		ResultMessage: i18n.Default().T(localeOf(c), "common.success"),
		Response:      data,
		ResponseDate:  time.Now(),
	})
}

// Fail translates err into an error envelope. Internal errors are logged.
func Fail(c *gin.Context, err error) {
	appErr := AsError(err)

	if appErr.Kind == KindInternal {
		requestID, _ := c.Get("request_id")
		logger.GetLogger().Error().
			Err(err).
			Interface("request_id", requestID).
			Str("path", c.Request.URL.Path).
			Str("code", appErr.Code()).
			Msg("request failed")
	}

	c.Set(ResultCodeKey, appErr.Code())
	c.JSON(http.StatusOK, APIResponse{
		ResultCode:    appErr.Code(),
		ResultMessage: i18n.Default().T(localeOf(c), appErr.Key),
		ResponseDate:  time.Now(),
	})
}

// AbortWithError writes the error envelope and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

func localeOf(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(LocaleKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.LocaleKo
}
