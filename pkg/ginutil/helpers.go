package ginutil

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DateLayout is the wire format for date-only query parameters
const DateLayout = "2006-01-02"

// ParamUint64 extracts a uint64 id from path parameters
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	return strconv.ParseUint(c.Param(key), 10, 64)
}

// QueryUint64 extracts an optional uint64 from query parameters.
// Returns nil when the key is absent.
func QueryUint64(c *gin.Context, key string) (*uint64, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// QueryDate parses a YYYY-MM-DD query parameter, returning def when absent
func QueryDate(c *gin.Context, key string, def time.Time) (time.Time, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return def, nil
	}
	return time.ParseInLocation(DateLayout, valueStr, time.Local)
}
