package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// RoomHandler handles room requests
type RoomHandler struct {
	service service.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(service service.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// CreateRoom handles POST /api/v1/rooms
// @Summary 방 생성
// @Description 방장은 자동으로 멤버가 되며, 초대된 회원에게 알림이 전송됩니다
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body domain.CreateRoomRequest true "방 정보"
// @Success 200 {object} common.APIResponse{response=domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req domain.CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateRoom(c.Request.Context(), currentUser(c), &req)
	respond(c, resp, err)
}

// GetRooms handles GET /api/v1/rooms
// @Summary 내 방 목록 (개인 방 제외)
// @Tags rooms
// @Produce json
// @Success 200 {object} common.APIResponse{response=[]domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms [get]
func (h *RoomHandler) GetRooms(c *gin.Context) {
	resp, err := h.service.GetRooms(c.Request.Context(), currentUser(c))
	respond(c, resp, err)
}

// GetRoom handles GET /api/v1/rooms/:room_id
// @Summary 방 상세 조회
// @Tags rooms
// @Produce json
// @Param room_id path int true "방 ID"
// @Success 200 {object} common.APIResponse{response=domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms/{room_id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	resp, err := h.service.GetRoom(c.Request.Context(), currentUser(c), roomID)
	respond(c, resp, err)
}

// UpdateRoom handles PATCH /api/v1/rooms/:room_id
// @Summary 방 수정 (방장)
// @Tags rooms
// @Accept json
// @Produce json
// @Param room_id path int true "방 ID"
// @Param request body domain.UpdateRoomRequest true "변경할 항목"
// @Success 200 {object} common.APIResponse{response=domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms/{room_id} [patch]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	var req domain.UpdateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateRoom(c.Request.Context(), currentUser(c), roomID, &req)
	respond(c, resp, err)
}

// DeleteRoom handles DELETE /api/v1/rooms/:room_id
// @Summary 방 삭제 (방장)
// @Tags rooms
// @Produce json
// @Param room_id path int true "방 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /rooms/{room_id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.DeleteRoom(c.Request.Context(), currentUser(c), roomID))
}

// AddMembers handles POST /api/v1/rooms/:room_id/members
// @Summary 멤버 초대
// @Tags rooms
// @Accept json
// @Produce json
// @Param room_id path int true "방 ID"
// @Param request body domain.AddMembersRequest true "초대할 회원"
// @Success 200 {object} common.APIResponse{response=domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms/{room_id}/members [post]
func (h *RoomHandler) AddMembers(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	var req domain.AddMembersRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.AddMembers(c.Request.Context(), currentUser(c), roomID, req.MemberIDs)
	respond(c, resp, err)
}

// ExitRoom handles DELETE /api/v1/rooms/:room_id/members/me
// @Summary 방 나가기
// @Description 방장이 나가면 가장 먼저 들어온 멤버가 방장이 되고, 마지막 멤버가 나가면 방이 삭제됩니다
// @Tags rooms
// @Produce json
// @Param room_id path int true "방 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /rooms/{room_id}/members/me [delete]
func (h *RoomHandler) ExitRoom(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.ExitRoom(c.Request.Context(), currentUser(c), roomID))
}

// TransferOwner handles PATCH /api/v1/rooms/:room_id/owner
// @Summary 방장 위임
// @Tags rooms
// @Accept json
// @Produce json
// @Param room_id path int true "방 ID"
// @Param request body domain.TransferOwnerRequest true "새 방장"
// @Success 200 {object} common.APIResponse{response=domain.RoomResponse}
// @Security BearerAuth
// @Router /rooms/{room_id}/owner [patch]
func (h *RoomHandler) TransferOwner(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	var req domain.TransferOwnerRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.TransferOwner(c.Request.Context(), currentUser(c), roomID, req.NewOwnerID)
	respond(c, resp, err)
}
