package service

import (
	"context"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
)

// FriendService friend relationship business logic
type FriendService interface {
	RequestFriend(ctx context.Context, userID, friendID uint64) error
	AcceptFriend(ctx context.Context, userID, friendID uint64) error
	CancelFriend(ctx context.Context, userID, friendID uint64) error
	DeleteFriend(ctx context.Context, userID, friendID uint64) error
	PatchFriendStatus(ctx context.Context, userID, friendID uint64, status domain.FriendStatus) error
	ReAddFriend(ctx context.Context, userID, friendID uint64) error
	GetFriends(ctx context.Context, userID uint64, status domain.FriendStatus) ([]domain.FriendResponse, error)
}

type friendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   *notifier
}

// NewFriendService creates a new FriendService
func NewFriendService(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	noticeService NoticeService,
	fcmService FcmService,
) FriendService {
	return &friendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   &notifier{notices: noticeService, fcm: fcmService},
	}
}

// pair loads both directions of the relationship after checking the target user
func (s *friendService) pair(ctx context.Context, userID, friendID uint64) (mine, theirs domain.FriendStatus, err error) {
	if userID == friendID {
		return "", "", common.ErrFriendSelf
	}
	if _, err := s.userRepo.FindByID(ctx, friendID); err != nil {
		return "", "", notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	a, err := s.friendRepo.FindPair(ctx, userID, friendID)
	if err != nil {
		return "", "", common.Internal(common.ResourceFriend, err)
	}
	b, err := s.friendRepo.FindPair(ctx, friendID, userID)
	if err != nil {
		return "", "", common.Internal(common.ResourceFriend, err)
	}
	return domain.StatusOf(a), domain.StatusOf(b), nil
}

func (s *friendService) RequestFriend(ctx context.Context, userID, friendID uint64) error {
	mine, theirs, err := s.pair(ctx, userID, friendID)
	if err != nil {
		return err
	}
	action, err := domain.ResolveRequest(mine, theirs)
	if err != nil {
		return err
	}
	if action == domain.RequestAccept {
		return s.accept(ctx, userID, friendID)
	}

	if err := s.friendRepo.SavePair(ctx, userID, friendID, domain.FriendWait, domain.FriendRequestedBy); err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	s.notifyFriend(ctx, userID, friendID, domain.NoticeFriendRequest, "push.friend_request.body")
	return nil
}

func (s *friendService) AcceptFriend(ctx context.Context, userID, friendID uint64) error {
	mine, theirs, err := s.pair(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if err := domain.CheckAccept(mine, theirs); err != nil {
		return err
	}
	return s.accept(ctx, userID, friendID)
}

func (s *friendService) accept(ctx context.Context, userID, friendID uint64) error {
	if err := s.friendRepo.SavePair(ctx, userID, friendID, domain.FriendFriend, domain.FriendFriend); err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	s.notifyFriend(ctx, userID, friendID, domain.NoticeFriendAccept, "push.friend_accept.body")
	return nil
}

// notifyFriend tells friendID what userID did; value is the actor's id
func (s *friendService) notifyFriend(ctx context.Context, userID, friendID uint64, noticeType domain.NoticeType, bodyKey string) {
	actor, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return
	}
	s.notifier.notify(ctx, friendID, noticeType, userID, pushText(bodyKey, actor.Name))
}

// CancelFriend withdraws a sent request or declines a received one
func (s *friendService) CancelFriend(ctx context.Context, userID, friendID uint64) error {
	mine, theirs, err := s.pair(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if err := domain.CheckCancel(mine, theirs); err != nil {
		return err
	}
	if _, err := s.friendRepo.DeletePair(ctx, userID, friendID); err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	return nil
}

func (s *friendService) DeleteFriend(ctx context.Context, userID, friendID uint64) error {
	if userID == friendID {
		return common.ErrFriendSelf
	}
	n, err := s.friendRepo.DeletePair(ctx, userID, friendID)
	if err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	if n == 0 {
		return common.ErrFriendNotFound
	}
	return nil
}

// PatchFriendStatus overwrites only the caller's side (차단 등)
func (s *friendService) PatchFriendStatus(ctx context.Context, userID, friendID uint64, status domain.FriendStatus) error {
	if err := domain.CheckPatch(status); err != nil {
		return err
	}
	if _, _, err := s.pair(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.friendRepo.Upsert(ctx, userID, friendID, status); err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	return nil
}

// ReAddFriend restores the caller's side while the other user still lists them as a friend
func (s *friendService) ReAddFriend(ctx context.Context, userID, friendID uint64) error {
	_, theirs, err := s.pair(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if err := domain.CheckReAdd(theirs); err != nil {
		return err
	}
	if err := s.friendRepo.Upsert(ctx, userID, friendID, domain.FriendFriend); err != nil {
		return common.Internal(common.ResourceFriend, err)
	}
	return nil
}

// GetFriends lists the caller's rows with the given status (FRIEND when empty)
func (s *friendService) GetFriends(ctx context.Context, userID uint64, status domain.FriendStatus) ([]domain.FriendResponse, error) {
	if status == domain.FriendNone {
		status = domain.FriendFriend
	}
	if !status.IsValid() {
		return nil, common.ErrFriendInvalidStatus
	}

	rows, err := s.friendRepo.FindByStatus(ctx, userID, status)
	if err != nil {
		return nil, common.Internal(common.ResourceFriend, err)
	}
	ids := make([]uint64, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.FriendUserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}
	byID := make(map[uint64]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	// 탈퇴한 회원은 목록에서 제외
	result := make([]domain.FriendResponse, 0, len(rows))
	for _, f := range rows {
		u, ok := byID[f.FriendUserID]
		if !ok {
			continue
		}
		result = append(result, domain.FriendResponse{
			User:      u.ToSummary(),
			Status:    f.Status,
			UpdatedAt: f.UpdatedAt,
		})
	}
	return result, nil
}
