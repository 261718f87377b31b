package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
	"github.com/ourmemory/ourmemory-backend/pkg/ginutil"
)

// MemoryHandler handles memory (일정) requests
type MemoryHandler struct {
	service service.MemoryService
}

// NewMemoryHandler creates a new MemoryHandler
func NewMemoryHandler(service service.MemoryService) *MemoryHandler {
	return &MemoryHandler{service: service}
}

// CreateMemory handles POST /api/v1/memories
// @Summary 일정 생성
// @Description 작성자의 개인 방에 저장되고, share가 있으면 함께 공유됩니다
// @Tags memories
// @Accept json
// @Produce json
// @Param request body domain.MemoryRequest true "일정"
// @Success 200 {object} common.APIResponse{response=domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories [post]
func (h *MemoryHandler) CreateMemory(c *gin.Context) {
	var req domain.MemoryRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateMemory(c.Request.Context(), currentUser(c), &req)
	respond(c, resp, err)
}

// GetMemories handles GET /api/v1/memories
// @Summary 기간별 일정 조회
// @Description room_id가 없으면 내가 속한 모든 방의 일정을 조회합니다. 기본 기간은 이번 달입니다
// @Tags memories
// @Produce json
// @Param room_id query int false "방 ID"
// @Param start query string false "시작일 (YYYY-MM-DD)"
// @Param end query string false "종료일 (YYYY-MM-DD, 포함)"
// @Success 200 {object} common.APIResponse{response=[]domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories [get]
func (h *MemoryHandler) GetMemories(c *gin.Context) {
	roomID, err := ginutil.QueryUint64(c, "room_id")
	if err != nil {
		common.Fail(c, common.Validation(err))
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	resp, err := h.service.GetMemories(c.Request.Context(), currentUser(c), roomID, start, end)
	respond(c, resp, err)
}

// dateRange reads ?start=&end= (defaults to the current month).
// end covers the whole end day.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	start, err := ginutil.QueryDate(c, "start", monthStart)
	if err != nil {
		common.Fail(c, common.Validation(err))
		return time.Time{}, time.Time{}, false
	}
	end, err := ginutil.QueryDate(c, "end", monthStart.AddDate(0, 1, -1))
	if err != nil {
		common.Fail(c, common.Validation(err))
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// SearchMemories handles GET /api/v1/memories/search
// @Summary 일정 검색
// @Tags memories
// @Produce json
// @Param keyword query string true "검색어 (이름, 내용, 장소)"
// @Success 200 {object} common.APIResponse{response=[]domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories/search [get]
func (h *MemoryHandler) SearchMemories(c *gin.Context) {
	resp, err := h.service.SearchMemories(c.Request.Context(), currentUser(c), c.Query("keyword"))
	respond(c, resp, err)
}

// GetMemory handles GET /api/v1/memories/:memory_id
// @Summary 일정 상세 조회
// @Tags memories
// @Produce json
// @Param memory_id path int true "일정 ID"
// @Success 200 {object} common.APIResponse{response=domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories/{memory_id} [get]
func (h *MemoryHandler) GetMemory(c *gin.Context) {
	memoryID, ok := pathID(c, "memory_id")
	if !ok {
		return
	}
	resp, err := h.service.GetMemory(c.Request.Context(), currentUser(c), memoryID)
	respond(c, resp, err)
}

// UpdateMemory handles PUT /api/v1/memories/:memory_id
// @Summary 일정 수정 (작성자)
// @Tags memories
// @Accept json
// @Produce json
// @Param memory_id path int true "일정 ID"
// @Param request body domain.MemoryRequest true "일정 (share는 무시됨)"
// @Success 200 {object} common.APIResponse{response=domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories/{memory_id} [put]
func (h *MemoryHandler) UpdateMemory(c *gin.Context) {
	memoryID, ok := pathID(c, "memory_id")
	if !ok {
		return
	}
	var req domain.MemoryRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateMemory(c.Request.Context(), currentUser(c), memoryID, &req)
	respond(c, resp, err)
}

// DeleteMemory handles DELETE /api/v1/memories/:memory_id
// @Summary 일정 삭제
// @Description 작성자는 일정을 삭제하고, 다른 멤버는 room_id 방에서만 제거합니다
// @Tags memories
// @Produce json
// @Param memory_id path int true "일정 ID"
// @Param room_id query int false "제거할 방 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /memories/{memory_id} [delete]
func (h *MemoryHandler) DeleteMemory(c *gin.Context) {
	memoryID, ok := pathID(c, "memory_id")
	if !ok {
		return
	}
	roomID, err := ginutil.QueryUint64(c, "room_id")
	if err != nil {
		common.Fail(c, common.Validation(err))
		return
	}
	respond(c, nil, h.service.DeleteMemory(c.Request.Context(), currentUser(c), memoryID, roomID))
}

// ShareMemory handles POST /api/v1/memories/:memory_id/share
// @Summary 일정 공유
// @Description USERS: 회원들의 개인 방, GROUP: 새 방 생성, ROOMS: 내가 속한 방들
// @Tags memories
// @Accept json
// @Produce json
// @Param memory_id path int true "일정 ID"
// @Param request body domain.ShareRequest true "공유 대상"
// @Success 200 {object} common.APIResponse{response=domain.MemoryResponse}
// @Security BearerAuth
// @Router /memories/{memory_id}/share [post]
func (h *MemoryHandler) ShareMemory(c *gin.Context) {
	memoryID, ok := pathID(c, "memory_id")
	if !ok {
		return
	}
	var req domain.ShareRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.ShareMemory(c.Request.Context(), currentUser(c), memoryID, &req)
	respond(c, resp, err)
}
