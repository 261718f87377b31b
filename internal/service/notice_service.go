package service

import (
	"context"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/internal/ws"
)

// NoticeService notice business logic
type NoticeService interface {
	CreateNotice(ctx context.Context, userID uint64, noticeType domain.NoticeType, value uint64) (*domain.Notice, error)
	GetNotices(ctx context.Context, userID uint64) ([]*domain.Notice, error)
	DeleteNotice(ctx context.Context, userID, noticeID uint64) error
	DeleteNotices(ctx context.Context, userID uint64) error
}

type noticeService struct {
	noticeRepo repository.NoticeRepository
	publisher  NoticePublisher
}

// NewNoticeService creates a new NoticeService. publisher may be nil.
func NewNoticeService(noticeRepo repository.NoticeRepository, publisher NoticePublisher) NoticeService {
	return &noticeService{noticeRepo: noticeRepo, publisher: publisher}
}

// CreateNotice stores the notice and pushes it to the user's live connections
func (s *noticeService) CreateNotice(ctx context.Context, userID uint64, noticeType domain.NoticeType, value uint64) (*domain.Notice, error) {
	notice := &domain.Notice{
		UserID: userID,
		Type:   noticeType,
		Value:  value,
		Used:   true,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, common.Internal(common.ResourceNotice, err)
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, &ws.Event{Type: ws.EventNotice, Payload: notice})
	}
	return notice, nil
}

// GetNotices returns notices newest first, then marks the unread ones read.
// The returned slice still shows which were unread.
func (s *noticeService) GetNotices(ctx context.Context, userID uint64) ([]*domain.Notice, error) {
	notices, err := s.noticeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, common.Internal(common.ResourceNotice, err)
	}

	unread := make([]uint64, 0)
	for _, n := range notices {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if err := s.noticeRepo.MarkRead(ctx, unread); err != nil {
		logWithUser(userID).Warn().Err(err).Msg("failed to mark notices read")
	}
	return notices, nil
}

func (s *noticeService) DeleteNotice(ctx context.Context, userID, noticeID uint64) error {
	notice, err := s.noticeRepo.FindByID(ctx, noticeID)
	if err != nil {
		return notFoundOr(err, common.ErrNoticeNotFound, common.ResourceNotice)
	}
	// 다른 사람의 알림은 존재하지 않는 것으로 취급
	if notice.UserID != userID {
		return common.ErrNoticeNotFound
	}
	if err := s.noticeRepo.SoftDelete(ctx, noticeID); err != nil {
		return common.Internal(common.ResourceNotice, err)
	}
	return nil
}

func (s *noticeService) DeleteNotices(ctx context.Context, userID uint64) error {
	if _, err := s.noticeRepo.SoftDeleteAll(ctx, userID); err != nil {
		return common.Internal(common.ResourceNotice, err)
	}
	return nil
}
