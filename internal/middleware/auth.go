package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
)

const userIDKey = "userID"

// JWTAuth JWT authentication middleware.
// Failures are answered with the A401 envelope (HTTP 200).
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			common.AbortWithError(c, common.ErrUnauthorized)
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.AbortWithError(c, common.ErrTokenExpired)
			} else {
				common.AbortWithError(c, common.ErrTokenInvalid)
			}
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>".
// Websocket clients cannot set headers, so ?token= is accepted as well.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, true
		}
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts the authenticated user id (0 when anonymous)
func GetUserID(c *gin.Context) uint64 {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	if id, ok := v.(uint64); ok {
		return id
	}
	return 0
}
