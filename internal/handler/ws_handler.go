package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/config"
	"github.com/ourmemory/ourmemory-backend/internal/ws"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
)

// WSHandler upgrades live notice connections
type WSHandler struct {
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. allowedOrigins is comma separated; empty allows all.
func NewWSHandler(hub *ws.Hub, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		allowedOrigins: config.SplitAndTrim(allowedOrigins, ","),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// 모바일 앱은 Origin 헤더가 없음
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// Connect handles GET /api/v1/ws/notices
// @Summary 실시간 알림 WebSocket
// @Description 연결 후 {"type":"notice","payload":{...}} 형태로 새 알림이 전달됩니다. 토큰은 ?token= 으로도 전달할 수 있습니다
// @Tags notices
// @Security BearerAuth
// @Router /ws/notices [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID := currentUser(c)
	if userID == 0 {
		common.Fail(c, common.ErrUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Debug().Err(err).Uint64("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
