package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// NoticeHandler handles notice (알림) requests
type NoticeHandler struct {
	service service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(service service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// GetNotices handles GET /api/v1/notices
// @Summary 알림 목록
// @Description 최신순으로 조회하며, 조회한 알림은 읽음 처리됩니다 (응답은 읽기 전 상태)
// @Tags notices
// @Produce json
// @Success 200 {object} common.APIResponse{response=[]domain.Notice}
// @Security BearerAuth
// @Router /notices [get]
func (h *NoticeHandler) GetNotices(c *gin.Context) {
	resp, err := h.service.GetNotices(c.Request.Context(), currentUser(c))
	respond(c, resp, err)
}

// DeleteNotice handles DELETE /api/v1/notices/:notice_id
// @Summary 알림 삭제
// @Tags notices
// @Produce json
// @Param notice_id path int true "알림 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /notices/{notice_id} [delete]
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	noticeID, ok := pathID(c, "notice_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.DeleteNotice(c.Request.Context(), currentUser(c), noticeID))
}

// DeleteNotices handles DELETE /api/v1/notices
// @Summary 알림 전체 삭제
// @Tags notices
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /notices [delete]
func (h *NoticeHandler) DeleteNotices(c *gin.Context) {
	respond(c, nil, h.service.DeleteNotices(c.Request.Context(), currentUser(c)))
}
