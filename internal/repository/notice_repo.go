package repository

import (
	"context"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
)

// NoticeRepository notice data access interface
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	FindByID(ctx context.Context, id uint64) (*domain.Notice, error)
	FindByUser(ctx context.Context, userID uint64) ([]*domain.Notice, error)
	MarkRead(ctx context.Context, ids []uint64) error
	SoftDelete(ctx context.Context, id uint64) error
	SoftDeleteAll(ctx context.Context, userID uint64) (int64, error)
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// FindByID returns an active notice; gorm.ErrRecordNotFound otherwise
func (r *noticeRepository) FindByID(ctx context.Context, id uint64) (*domain.Notice, error) {
	var notice domain.Notice
	err := r.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, true).
		First(&notice).Error
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

// FindByUser 최신순 알림 목록
func (r *noticeRepository) FindByUser(ctx context.Context, userID uint64) ([]*domain.Notice, error) {
	var notices []*domain.Notice
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND used = ?", userID, true).
		Order("created_at DESC, id DESC").
		Find(&notices).Error
	return notices, err
}

func (r *noticeRepository) MarkRead(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Notice{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
}

func (r *noticeRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notice{}).
		Where("id = ?", id).
		Update("used", false).Error
}

func (r *noticeRepository) SoftDeleteAll(ctx context.Context, userID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Notice{}).
		Where("user_id = ? AND used = ?", userID, true).
		Update("used", false)
	return result.RowsAffected, result.Error
}
