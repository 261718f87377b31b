package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/service"
)

// TodoHandler handles todo requests
type TodoHandler struct {
	service service.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(service service.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// CreateTodo handles POST /api/v1/todos
// @Summary 할 일 생성
// @Tags todos
// @Accept json
// @Produce json
// @Param request body domain.TodoRequest true "할 일"
// @Success 200 {object} common.APIResponse{response=domain.TodoResponse}
// @Security BearerAuth
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req domain.TodoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateTodo(c.Request.Context(), currentUser(c), &req)
	respond(c, resp, err)
}

// GetTodos handles GET /api/v1/todos
// @Summary 기간별 할 일 조회
// @Tags todos
// @Produce json
// @Param start query string false "시작일 (YYYY-MM-DD)"
// @Param end query string false "종료일 (YYYY-MM-DD, 포함)"
// @Success 200 {object} common.APIResponse{response=[]domain.TodoResponse}
// @Security BearerAuth
// @Router /todos [get]
func (h *TodoHandler) GetTodos(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	resp, err := h.service.GetTodos(c.Request.Context(), currentUser(c), start, end)
	respond(c, resp, err)
}

// UpdateTodo handles PATCH /api/v1/todos/:todo_id
// @Summary 할 일 수정
// @Tags todos
// @Accept json
// @Produce json
// @Param todo_id path int true "할 일 ID"
// @Param request body domain.UpdateTodoRequest true "변경할 항목"
// @Success 200 {object} common.APIResponse{response=domain.TodoResponse}
// @Security BearerAuth
// @Router /todos/{todo_id} [patch]
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	todoID, ok := pathID(c, "todo_id")
	if !ok {
		return
	}
	var req domain.UpdateTodoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateTodo(c.Request.Context(), currentUser(c), todoID, &req)
	respond(c, resp, err)
}

// DeleteTodo handles DELETE /api/v1/todos/:todo_id
// @Summary 할 일 삭제
// @Tags todos
// @Produce json
// @Param todo_id path int true "할 일 ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /todos/{todo_id} [delete]
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	todoID, ok := pathID(c, "todo_id")
	if !ok {
		return
	}
	respond(c, nil, h.service.DeleteTodo(c.Request.Context(), currentUser(c), todoID))
}
