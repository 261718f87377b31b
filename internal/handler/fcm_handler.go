package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// FcmHandler handles direct push requests
type FcmHandler struct {
	service service.FcmService
}

// NewFcmHandler creates a new FcmHandler
func NewFcmHandler(service service.FcmService) *FcmHandler {
	return &FcmHandler{service: service}
}

// Send handles POST /api/v1/fcm/send
// @Summary 푸시 직접 발송
// @Tags fcm
// @Accept json
// @Produce json
// @Param request body domain.FcmSendRequest true "푸시 메시지"
// @Success 200 {object} common.APIResponse{response=domain.FcmSendResponse}
// @Security BearerAuth
// @Router /fcm/send [post]
func (h *FcmHandler) Send(c *gin.Context) {
	var req domain.FcmSendRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.SendToToken(c.Request.Context(), &req)
	respond(c, resp, err)
}
