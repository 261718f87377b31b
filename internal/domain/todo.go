package domain

import "time"

// Todo 할 일
type Todo struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WriterID  uint64    `gorm:"column:writer_id;not null;index:idx_todos_writer_date" json:"writer_id"`
	Contents  string    `gorm:"column:contents;size:255;not null" json:"contents"`
	TodoDate  time.Time `gorm:"column:todo_date;type:date;not null;index:idx_todos_writer_date" json:"-"`
	State     bool      `gorm:"column:state" json:"state"`
	Used      bool      `gorm:"column:used;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Todo) TableName() string {
	return "todos"
}

// TodoRequest 할 일 생성 요청
type TodoRequest struct {
	Contents string `json:"contents" binding:"required,max=255"`
	TodoDate string `json:"todo_date" binding:"required,datetime=2006-01-02"`
}

// UpdateTodoRequest 할 일 수정 요청
type UpdateTodoRequest struct {
	Contents *string `json:"contents" binding:"omitempty,min=1,max=255"`
	TodoDate *string `json:"todo_date" binding:"omitempty,datetime=2006-01-02"`
	State    *bool   `json:"state"`
}

// TodoResponse 할 일 응답
type TodoResponse struct {
	ID        uint64    `json:"id"`
	Contents  string    `json:"contents"`
	TodoDate  string    `json:"todo_date"`
	State     bool      `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts the entity
func (t *Todo) ToResponse() TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Contents:  t.Contents,
		TodoDate:  t.TodoDate.Format(DateLayout),
		State:     t.State,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
