package service

import (
	"context"
	"strings"
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
)

// TodoService todo business logic. Todos are private to their writer.
type TodoService interface {
	CreateTodo(ctx context.Context, writerID uint64, req *domain.TodoRequest) (*domain.TodoResponse, error)
	GetTodos(ctx context.Context, writerID uint64, start, end time.Time) ([]domain.TodoResponse, error)
	UpdateTodo(ctx context.Context, writerID, todoID uint64, req *domain.UpdateTodoRequest) (*domain.TodoResponse, error)
	DeleteTodo(ctx context.Context, writerID, todoID uint64) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func parseTodoDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, common.Validation(err)
	}
	return t, nil
}

func (s *todoService) CreateTodo(ctx context.Context, writerID uint64, req *domain.TodoRequest) (*domain.TodoResponse, error) {
	date, err := parseTodoDate(req.TodoDate)
	if err != nil {
		return nil, err
	}
	todo := &domain.Todo{
		WriterID: writerID,
		Contents: strings.TrimSpace(req.Contents),
		TodoDate: date,
		Used:     true,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, common.Internal(common.ResourceTodo, err)
	}
	resp := todo.ToResponse()
	return &resp, nil
}

func (s *todoService) GetTodos(ctx context.Context, writerID uint64, start, end time.Time) ([]domain.TodoResponse, error) {
	if end.Before(start) {
		return nil, common.ErrBadRequest
	}
	todos, err := s.repo.FindByWriter(ctx, writerID, start, end)
	if err != nil {
		return nil, common.Internal(common.ResourceTodo, err)
	}
	result := make([]domain.TodoResponse, 0, len(todos))
	for _, t := range todos {
		result = append(result, t.ToResponse())
	}
	return result, nil
}

func (s *todoService) owned(ctx context.Context, writerID, todoID uint64) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, todoID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrTodoNotFound, common.ResourceTodo)
	}
	if todo.WriterID != writerID {
		return nil, common.ErrTodoNotWriter
	}
	return todo, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, writerID, todoID uint64, req *domain.UpdateTodoRequest) (*domain.TodoResponse, error) {
	todo, err := s.owned(ctx, writerID, todoID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Contents != nil {
		todo.Contents = strings.TrimSpace(*req.Contents)
		fields["contents"] = todo.Contents
	}
	if req.TodoDate != nil {
		date, err := parseTodoDate(*req.TodoDate)
		if err != nil {
			return nil, err
		}
		todo.TodoDate = date
		fields["todo_date"] = date
	}
	if req.State != nil {
		todo.State = *req.State
		fields["state"] = todo.State
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, todoID, fields); err != nil {
			return nil, common.Internal(common.ResourceTodo, err)
		}
		if todo, err = s.repo.FindByID(ctx, todoID); err != nil {
			return nil, notFoundOr(err, common.ErrTodoNotFound, common.ResourceTodo)
		}
	}
	resp := todo.ToResponse()
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, writerID, todoID uint64) error {
	if _, err := s.owned(ctx, writerID, todoID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, todoID); err != nil {
		return common.Internal(common.ResourceTodo, err)
	}
	return nil
}
