package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) common.APIResponse {
	t.Helper()
	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func authRouter(m *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(I18n())
	r.GET("/me", JWTAuth(m), func(c *gin.Context) {
		common.Success(c, gin.H{"user_id": GetUserID(c)})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	m := jwt.NewManager("secret", 60, 120)
	r := authRouter(m)

	access, err := m.GenerateAccessToken(42, "하늘")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(42)
	require.NoError(t, err)
	expired, err := jwt.NewManager("secret", -10, -10).GenerateAccessToken(42, "x")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		code   string
	}{
		{"헤더 없음", "", "", "A401"},
		{"잘못된 형식", "Token abc", "", "A401"},
		{"유효한 토큰", "Bearer " + access, "", common.CodeSuccess},
		{"쿼리 토큰", "", "?token=" + access, common.CodeSuccess},
		{"refresh 토큰 거부", "Bearer " + refresh, "", "A401"},
		{"만료", "Bearer " + expired, "", "A401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.code, decode(t, w).ResultCode)
		})
	}
}

func TestJWTAuth_SetsUser(t *testing.T) {
	m := jwt.NewManager("secret", 60, 120)
	access, err := m.GenerateAccessToken(7, "민수")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	authRouter(m).ServeHTTP(w, req)

	body := decode(t, w).Response.(map[string]interface{})
	assert.Equal(t, float64(7), body["user_id"])
}

func TestJWTAuth_MissingHeaderLocalized(t *testing.T) {
	m := jwt.NewManager("secret", 60, 120)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	authRouter(m).ServeHTTP(w, req)

	assert.Equal(t, "en", w.Header().Get("Content-Language"))
	resp := decode(t, w)
	assert.Equal(t, "A401", resp.ResultCode)
	assert.NotEmpty(t, resp.ResultMessage)
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{RequestsPerMinute: 2, CleanupInterval: time.Minute})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { common.Success(c, "pong") })

	codes := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, decode(t, w).ResultCode)
		if i == 2 {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []string{"S000", "S000", "C429"}, codes)

	// 다른 IP는 별도 버킷
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, "S000", decode(t, w).ResultCode)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{RequestsPerMinute: 10, CleanupInterval: time.Hour})
	defer rl.Stop()

	rl.local("ip:a")
	rl.cleanup(time.Now().Add(time.Second))
	assert.Empty(t, rl.visitors)
}

type bindTarget struct {
	Status domain.FriendStatus `json:"status" binding:"required,friend_status"`
	Sns    domain.SnsType      `json:"sns" binding:"omitempty,sns_type"`
	Share  domain.ShareType    `json:"share" binding:"omitempty,share_type"`
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			common.Fail(c, common.Validation(err))
			return
		}
		common.Success(c, req)
	})

	tests := []struct {
		body string
		code string
	}{
		{`{"status":"BLOCK","sns":"KAKAO","share":"GROUP"}`, common.CodeSuccess},
		{`{"status":"ENEMY"}`, "C400"},
		{`{"status":"FRIEND","sns":"GOOGLE"}`, "C400"},
		{`{"status":"FRIEND","share":"ALL"}`, "C400"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.code, decode(t, w).ResultCode, tt.body)
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), SecurityHeaders(), Metrics())
	r.GET("/ok", func(c *gin.Context) { common.Success(c, nil) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 8)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "given-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get("X-Request-ID"))
}

func TestRequestLogger_LogsUser(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("production", &buf)
	t.Cleanup(func() { logger.InitWithWriter("production", io.Discard) })

	m := jwt.NewManager("secret", 60, 120)
	access, err := m.GenerateAccessToken(9, "지민")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", JWTAuth(m), func(c *gin.Context) { common.Success(c, nil) })

	req := httptest.NewRequest(http.MethodGet, "/me?x=1", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(9), entry["user_id"])
	assert.Equal(t, "/me", entry["path"])
	assert.Equal(t, "x=1", entry["query"])
	assert.Equal(t, "request", entry["message"])
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ok", func(c *gin.Context) { common.Success(c, nil) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Permissions-Policy"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://api.ourmemory.app/ok", nil))
	assert.Equal(t, "max-age=31536000", w.Header().Get("Strict-Transport-Security"))
}
