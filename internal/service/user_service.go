package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/pkg/cache"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
	"github.com/ourmemory/ourmemory-backend/pkg/storage"
	"gorm.io/gorm"
)

const userSearchLimit = 30

// ProfileImage is an uploaded profile image
type ProfileImage struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UserService user business logic
type UserService interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error)
	SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
	GetMe(ctx context.Context, userID uint64) (*domain.UserResponse, error)
	GetUser(ctx context.Context, userID uint64) (*domain.UserSummary, error)
	SearchUsers(ctx context.Context, selfID uint64, name string) ([]domain.UserSummary, error)
	UpdateUser(ctx context.Context, userID uint64, req *domain.UpdateUserRequest) (*domain.UserResponse, error)
	UpdatePushToken(ctx context.Context, userID uint64, token string) error
	UploadProfileImage(ctx context.Context, userID uint64, img *ProfileImage) (*domain.UserResponse, error)
	DeleteUser(ctx context.Context, userID uint64) error
}

type userService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	roomRepo   repository.RoomRepository
	friendRepo repository.FriendRepository
	jwtManager *jwt.Manager
	cache      cache.Service
	storage    storage.ObjectStorage
}

// NewUserService creates a new UserService. store may be nil (uploads disabled).
func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	roomRepo repository.RoomRepository,
	friendRepo repository.FriendRepository,
	jwtManager *jwt.Manager,
	cacheService cache.Service,
	store storage.ObjectStorage,
) UserService {
	return &userService{
		db:         db,
		userRepo:   userRepo,
		roomRepo:   roomRepo,
		friendRepo: friendRepo,
		jwtManager: jwtManager,
		cache:      cacheService,
		storage:    store,
	}
}

// SignUp creates the account and its private room in one transaction.
// An active account with the same SNS identity is returned as is.
// A withdrawn account is reactivated with the new profile.
func (s *userService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	existing, err := s.userRepo.FindBySns(ctx, req.SnsID, req.SnsType)
	switch {
	case err == nil && existing.Used:
		return &domain.SignUpResponse{User: existing.ToResponse(), NewUser: false}, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, common.Internal(common.ResourceUser, err)
	}

	birthday, err := domain.ParseDate(req.Birthday)
	if err != nil {
		return nil, common.Validation(err)
	}

	user := existing
	if user == nil {
		user = &domain.User{SnsID: req.SnsID, SnsType: req.SnsType}
	}
	user.Name = req.Name
	user.Birthday = birthday
	user.PushToken = req.PushToken
	user.IsSolar = boolOr(req.IsSolar, true)
	user.BirthdayOpen = boolOr(req.BirthdayOpen, false)
	user.PushAlarm = boolOr(req.PushAlarm, true)
	user.Used = true

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		if user.ID == 0 {
			if err := users.Create(ctx, user); err != nil {
				return err
			}
		} else if err := users.Save(ctx, user); err != nil {
			return err
		}

		if user.PrivateRoomID != nil {
			return nil
		}
		rooms := s.roomRepo.WithTx(tx)
		room := &domain.Room{
			Name:    pushText("room.private_name", user.Name),
			OwnerID: user.ID,
			Used:    true,
		}
		if err := rooms.Create(ctx, room); err != nil {
			return err
		}
		if err := rooms.AddMembers(ctx, room.ID, []uint64{user.ID}); err != nil {
			return err
		}
		user.PrivateRoomID = &room.ID
		return users.UpdateFields(ctx, user.ID, map[string]interface{}{"private_room_id": room.ID})
	})
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}

	s.invalidate(ctx, user.ID)
	logWithUser(user.ID).Info().Str("sns_type", string(user.SnsType)).Msg("user signed up")
	return &domain.SignUpResponse{User: user.ToResponse(), NewUser: true}, nil
}

func (s *userService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepo.FindBySns(ctx, req.SnsID, req.SnsType)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	if !user.Used {
		return nil, common.ErrUserNotFound
	}

	if req.PushToken != "" && req.PushToken != user.PushToken {
		if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"push_token": req.PushToken}); err != nil {
			return nil, common.Internal(common.ResourceUser, err)
		}
		user.PushToken = req.PushToken
	}

	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *domain.User) (*domain.TokenResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Name)
	if err != nil {
		return nil, common.Internal(common.ResourceAuth, err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, common.Internal(common.ResourceAuth, err)
	}
	return &domain.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtManager.AccessTTL().Seconds()),
		User:         user.ToResponse(),
	}, nil
}

// profile returns the user's view, served from cache when possible
func (s *userService) profile(ctx context.Context, userID uint64) (*domain.UserResponse, error) {
	var cached domain.UserResponse
	if err := s.cache.GetUser(ctx, userID, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	resp := user.ToResponse()
	if err := s.cache.SetUser(ctx, userID, resp); err != nil {
		logWithUser(userID).Debug().Err(err).Msg("user cache set failed")
	}
	return &resp, nil
}

func (s *userService) invalidate(ctx context.Context, userID uint64) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logWithUser(userID).Warn().Err(err).Msg("user cache invalidate failed")
	}
}

func (s *userService) GetMe(ctx context.Context, userID uint64) (*domain.UserResponse, error) {
	return s.profile(ctx, userID)
}

func (s *userService) GetUser(ctx context.Context, userID uint64) (*domain.UserSummary, error) {
	resp, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := resp.Summary()
	return &summary, nil
}

func (s *userService) SearchUsers(ctx context.Context, selfID uint64, name string) ([]domain.UserSummary, error) {
	result := make([]domain.UserSummary, 0)
	name = strings.TrimSpace(name)
	if name == "" {
		return result, nil
	}

	users, err := s.userRepo.SearchByName(ctx, name, selfID, userSearchLimit)
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}
	for _, u := range users {
		result = append(result, u.ToSummary())
	}
	return result, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uint64, req *domain.UpdateUserRequest) (*domain.UserResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Birthday != nil {
		birthday, err := domain.ParseDate(*req.Birthday)
		if err != nil {
			return nil, common.Validation(err)
		}
		fields["birthday"] = birthday
	}
	if req.IsSolar != nil {
		fields["is_solar"] = *req.IsSolar
	}
	if req.BirthdayOpen != nil {
		fields["birthday_open"] = *req.BirthdayOpen
	}
	if req.PushAlarm != nil {
		fields["push_alarm"] = *req.PushAlarm
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, common.Internal(common.ResourceUser, err)
		}
		s.invalidate(ctx, userID)
	}
	return s.profile(ctx, userID)
}

func (s *userService) UpdatePushToken(ctx context.Context, userID uint64, token string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"push_token": token}); err != nil {
		return common.Internal(common.ResourceUser, err)
	}
	return nil
}

func (s *userService) UploadProfileImage(ctx context.Context, userID uint64, img *ProfileImage) (*domain.UserResponse, error) {
	if s.storage == nil {
		return nil, common.ErrStorageDisabled
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return nil, common.ErrInvalidProfileFile
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	key := storage.ProfileImageKey(userID, img.Filename)
	uploaded, err := s.storage.Upload(ctx, key, img.Body, img.ContentType, img.Size)
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"profile_image_url": uploaded.URL}); err != nil {
		// 업로드된 파일 정리
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.GetLogger().Warn().Err(delErr).Str("key", key).Msg("orphan profile image")
		}
		return nil, common.Internal(common.ResourceUser, err)
	}

	s.invalidate(ctx, userID)
	return s.profile(ctx, userID)
}

// DeleteUser withdraws the account and drops every friend relationship
func (s *userService) DeleteUser(ctx context.Context, userID uint64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{"used": false, "push_token": ""}
		if err := s.userRepo.WithTx(tx).UpdateFields(ctx, userID, fields); err != nil {
			return err
		}
		return s.friendRepo.WithTx(tx).DeleteAllOf(ctx, userID)
	})
	if err != nil {
		return common.Internal(common.ResourceUser, err)
	}

	s.invalidate(ctx, userID)
	logWithUser(userID).Info().Msg("user withdrawn")
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
