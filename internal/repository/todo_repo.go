package repository

import (
	"context"
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
)

// TodoRepository todo data access interface
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint64) (*domain.Todo, error)
	FindByWriter(ctx context.Context, writerID uint64, start, end time.Time) ([]*domain.Todo, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint64) error
}

type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// FindByID returns an active todo; gorm.ErrRecordNotFound otherwise
func (r *todoRepository) FindByID(ctx context.Context, id uint64) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, true).
		First(&todo).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// FindByWriter 기간 내 할 일 (start, end 포함)
func (r *todoRepository) FindByWriter(ctx context.Context, writerID uint64, start, end time.Time) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	err := r.db.WithContext(ctx).
		Where("writer_id = ? AND used = ? AND todo_date BETWEEN ? AND ?", writerID, true, start, end).
		Order("todo_date ASC, id ASC").
		Find(&todos).Error
	return todos, err
}

func (r *todoRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *todoRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"used": false})
}
