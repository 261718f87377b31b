package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// maxProfileImageSize 프로필 이미지 최대 크기 (10MB)
const maxProfileImageSize = 10 << 20

// UserHandler handles user account requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SignUp handles POST /api/v1/users/signup
// @Summary 회원가입
// @Description SNS 계정으로 가입합니다. 이미 가입된 계정이면 기존 회원을 돌려줍니다 (new_user=false)
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.SignUpRequest true "가입 정보"
// @Success 200 {object} common.APIResponse{response=domain.SignUpResponse}
// @Router /users/signup [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.SignUp(c.Request.Context(), &req)
	respond(c, resp, err)
}

// SignIn handles POST /api/v1/users/signin
// @Summary 로그인
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "SNS 계정"
// @Success 200 {object} common.APIResponse{response=domain.TokenResponse}
// @Router /users/signin [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.SignIn(c.Request.Context(), &req)
	respond(c, resp, err)
}

// Refresh handles POST /api/v1/users/refresh
// @Summary 토큰 재발급
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "refresh token"
// @Success 200 {object} common.APIResponse{response=domain.TokenResponse}
// @Router /users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	respond(c, resp, err)
}

// GetMe handles GET /api/v1/users/me
// @Summary 내 정보 조회
// @Tags users
// @Produce json
// @Success 200 {object} common.APIResponse{response=domain.UserResponse}
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	resp, err := h.service.GetMe(c.Request.Context(), currentUser(c))
	respond(c, resp, err)
}

// GetUser handles GET /api/v1/users/:user_id
// @Summary 회원 조회
// @Tags users
// @Produce json
// @Param user_id path int true "회원 ID"
// @Success 200 {object} common.APIResponse{response=domain.UserSummary}
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	resp, err := h.service.GetUser(c.Request.Context(), userID)
	respond(c, resp, err)
}

// SearchUsers handles GET /api/v1/users?name=
// @Summary 이름으로 회원 검색
// @Tags users
// @Produce json
// @Param name query string true "이름 (부분 일치)"
// @Success 200 {object} common.APIResponse{response=[]domain.UserSummary}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	resp, err := h.service.SearchUsers(c.Request.Context(), currentUser(c), c.Query("name"))
	respond(c, resp, err)
}

// UpdateMe handles PATCH /api/v1/users/me
// @Summary 내 정보 수정
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.UpdateUserRequest true "변경할 항목"
// @Success 200 {object} common.APIResponse{response=domain.UserResponse}
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateUser(c.Request.Context(), currentUser(c), &req)
	respond(c, resp, err)
}

// UpdatePushToken handles PATCH /api/v1/users/me/push-token
// @Summary FCM 토큰 갱신
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.PushTokenRequest true "FCM 토큰"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/me/push-token [patch]
func (h *UserHandler) UpdatePushToken(c *gin.Context) {
	var req domain.PushTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.service.UpdatePushToken(c.Request.Context(), currentUser(c), req.PushToken)
	respond(c, nil, err)
}

// UploadProfileImage handles PUT /api/v1/users/me/profile-image
// @Summary 프로필 이미지 업로드
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "이미지 파일"
// @Success 200 {object} common.APIResponse{response=domain.UserResponse}
// @Security BearerAuth
// @Router /users/me/profile-image [put]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil || header.Size > maxProfileImageSize {
		common.Fail(c, common.ErrInvalidProfileFile)
		return
	}
	file, err := header.Open()
	if err != nil {
		common.Fail(c, common.ErrInvalidProfileFile)
		return
	}
	defer file.Close()

	resp, err := h.service.UploadProfileImage(c.Request.Context(), currentUser(c), &service.ProfileImage{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	respond(c, resp, err)
}

// DeleteMe handles DELETE /api/v1/users/me
// @Summary 회원 탈퇴
// @Tags users
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	err := h.service.DeleteUser(c.Request.Context(), currentUser(c))
	respond(c, nil, err)
}
