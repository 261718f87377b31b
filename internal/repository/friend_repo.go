package repository

import (
	"context"
	"errors"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository friend relationship data access interface.
// Rows are directional: (userID, friendUserID) is userID's view.
type FriendRepository interface {
	WithTx(tx *gorm.DB) FriendRepository
	FindPair(ctx context.Context, userID, friendUserID uint64) (*domain.Friend, error)
	Upsert(ctx context.Context, userID, friendUserID uint64, status domain.FriendStatus) error
	SavePair(ctx context.Context, userID, friendUserID uint64, mine, theirs domain.FriendStatus) error
	DeletePair(ctx context.Context, userID, friendUserID uint64) (int64, error)
	DeleteAllOf(ctx context.Context, userID uint64) error
	FindByStatus(ctx context.Context, userID uint64, status domain.FriendStatus) ([]*domain.Friend, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *friendRepository) WithTx(tx *gorm.DB) FriendRepository {
	return &friendRepository{db: tx}
}

// FindPair returns nil, nil when the row does not exist
func (r *friendRepository) FindPair(ctx context.Context, userID, friendUserID uint64) (*domain.Friend, error) {
	var friend domain.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_user_id = ?", userID, friendUserID).
		First(&friend).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

// Upsert writes one directional row
func (r *friendRepository) Upsert(ctx context.Context, userID, friendUserID uint64, status domain.FriendStatus) error {
	row := &domain.Friend{UserID: userID, FriendUserID: friendUserID, Status: status}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(row).Error
}

// SavePair writes both directions atomically
func (r *friendRepository) SavePair(ctx context.Context, userID, friendUserID uint64, mine, theirs domain.FriendStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		if err := txRepo.Upsert(ctx, userID, friendUserID, mine); err != nil {
			return err
		}
		return txRepo.Upsert(ctx, friendUserID, userID, theirs)
	})
}

// DeletePair removes both directions and returns the number of rows removed
func (r *friendRepository) DeletePair(ctx context.Context, userID, friendUserID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?)",
			userID, friendUserID, friendUserID, userID).
		Delete(&domain.Friend{})
	return result.RowsAffected, result.Error
}

// DeleteAllOf removes every row in which the user takes part (탈퇴)
func (r *friendRepository) DeleteAllOf(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR friend_user_id = ?", userID, userID).
		Delete(&domain.Friend{}).Error
}

func (r *friendRepository) FindByStatus(ctx context.Context, userID uint64, status domain.FriendStatus) ([]*domain.Friend, error) {
	var friends []*domain.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("updated_at DESC, id DESC").
		Find(&friends).Error
	return friends, err
}
