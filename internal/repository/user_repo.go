package repository

import (
	"context"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindBySns(ctx context.Context, snsID string, snsType domain.SnsType) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error)
	SearchByName(ctx context.Context, keyword string, excludeID uint64, limit int) ([]*domain.User, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByID returns an active user; gorm.ErrRecordNotFound otherwise
func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySns returns the account for an SNS identity, including withdrawn ones
func (r *userRepository) FindBySns(ctx context.Context, snsID string, snsType domain.SnsType) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("sns_id = ? AND sns_type = ?", snsID, snsType).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns active users among ids
func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error) {
	var users []*domain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND used = ?", ids, true).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// SearchByName 이름 부분 일치 검색 (본인 제외)
func (r *userRepository) SearchByName(ctx context.Context, keyword string, excludeID uint64, limit int) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("name LIKE ? ESCAPE '!' AND id <> ? AND used = ?", containsPattern(keyword), excludeID, true).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}
