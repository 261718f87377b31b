package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/middleware"
	"github.com/ourmemory/ourmemory-backend/pkg/ginutil"
)

// bindJSON binds the body and writes a C400 envelope on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.Fail(c, common.Validation(err))
		return false
	}
	return true
}

// pathID parses a numeric path parameter and writes a C400 envelope on failure
func pathID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, key)
	if err != nil || id == 0 {
		common.Fail(c, common.Validation(err))
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user id set by JWTAuth
func currentUser(c *gin.Context) uint64 {
	return middleware.GetUserID(c)
}

// respond writes data or the error envelope
func respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, data)
}
