package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// FriendHandler handles friend relationship requests
type FriendHandler struct {
	service service.FriendService
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(service service.FriendService) *FriendHandler {
	return &FriendHandler{service: service}
}

// GetFriends handles GET /api/v1/friends
// @Summary 친구 목록
// @Tags friends
// @Produce json
// @Param status query string false "WAIT | REQUESTED_BY | FRIEND | BLOCK (기본 FRIEND)"
// @Success 200 {object} common.APIResponse{response=[]domain.FriendResponse}
// @Security BearerAuth
// @Router /friends [get]
func (h *FriendHandler) GetFriends(c *gin.Context) {
	status := domain.FriendStatus(c.Query("status"))
	resp, err := h.service.GetFriends(c.Request.Context(), currentUser(c), status)
	respond(c, resp, err)
}

// RequestFriend handles POST /api/v1/friends/:user_id
// @Summary 친구 요청
// @Description 상대가 이미 나에게 요청했다면 수락으로 처리됩니다
// @Tags friends
// @Produce json
// @Param user_id path int true "상대 회원 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id} [post]
func (h *FriendHandler) RequestFriend(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.RequestFriend(c.Request.Context(), currentUser(c), friendID))
}

// AcceptFriend handles POST /api/v1/friends/:user_id/accept
// @Summary 친구 요청 수락
// @Tags friends
// @Produce json
// @Param user_id path int true "요청한 회원 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id}/accept [post]
func (h *FriendHandler) AcceptFriend(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.AcceptFriend(c.Request.Context(), currentUser(c), friendID))
}

// ReAddFriend handles POST /api/v1/friends/:user_id/readd
// @Summary 친구 재추가
// @Description 상대가 아직 나를 친구로 두고 있을 때만 가능합니다
// @Tags friends
// @Produce json
// @Param user_id path int true "상대 회원 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id}/readd [post]
func (h *FriendHandler) ReAddFriend(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.ReAddFriend(c.Request.Context(), currentUser(c), friendID))
}

// PatchFriendStatus handles PATCH /api/v1/friends/:user_id/status
// @Summary 친구 상태 변경 (차단 등)
// @Tags friends
// @Accept json
// @Produce json
// @Param user_id path int true "상대 회원 ID"
// @Param request body domain.PatchFriendStatusRequest true "상태"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id}/status [patch]
func (h *FriendHandler) PatchFriendStatus(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req domain.PatchFriendStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	respond(c, nil, h.service.PatchFriendStatus(c.Request.Context(), currentUser(c), friendID, req.Status))
}

// CancelFriend handles DELETE /api/v1/friends/:user_id/request
// @Summary 친구 요청 취소/거절
// @Tags friends
// @Produce json
// @Param user_id path int true "상대 회원 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id}/request [delete]
func (h *FriendHandler) CancelFriend(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.CancelFriend(c.Request.Context(), currentUser(c), friendID))
}

// DeleteFriend handles DELETE /api/v1/friends/:user_id
// @Summary 친구 삭제
// @Tags friends
// @Produce json
// @Param user_id path int true "상대 회원 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /friends/{user_id} [delete]
func (h *FriendHandler) DeleteFriend(c *gin.Context) {
	friendID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.DeleteFriend(c.Request.Context(), currentUser(c), friendID))
}
