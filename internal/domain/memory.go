package domain

import "time"

// ShareType 일정 공유 방식
type ShareType string

const (
	// ShareUsers 대상 회원들의 개인 방에 공유
	ShareUsers ShareType = "USERS"
	// ShareGroup 대상 회원들과 새 방을 만들어 공유
	ShareGroup ShareType = "GROUP"
	// ShareRooms 기존 방들에 공유
	ShareRooms ShareType = "ROOMS"
)

// IsValid reports whether t is a known share type
func (t ShareType) IsValid() bool {
	switch t {
	case ShareUsers, ShareGroup, ShareRooms:
		return true
	}
	return false
}

// Memory 일정
type Memory struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"column:name;size:100;not null" json:"name"`
	Contents    string     `gorm:"column:contents;type:text" json:"contents"`
	Place       string     `gorm:"column:place;size:255" json:"place"`
	StartDate   time.Time  `gorm:"column:start_date;not null;index" json:"start_date"`
	EndDate     time.Time  `gorm:"column:end_date;not null;index" json:"end_date"`
	FirstAlarm  *time.Time `gorm:"column:first_alarm" json:"first_alarm,omitempty"`
	SecondAlarm *time.Time `gorm:"column:second_alarm" json:"second_alarm,omitempty"`
	BgColor     string     `gorm:"column:bg_color;size:20" json:"bg_color"`
	WriterID    uint64     `gorm:"column:writer_id;not null;index" json:"writer_id"`
	Used        bool       `gorm:"column:used;not null;index" json:"-"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Memory) TableName() string {
	return "memories"
}

// MemoryRoom memory_rooms join row
type MemoryRoom struct {
	MemoryID  uint64    `gorm:"column:memory_id;primaryKey" json:"memory_id"`
	RoomID    uint64    `gorm:"column:room_id;primaryKey;index" json:"room_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (MemoryRoom) TableName() string {
	return "memory_rooms"
}

// MemoryRequest 일정 생성/수정 요청
type MemoryRequest struct {
	Name        string        `json:"name" binding:"required,max=100"`
	Contents    string        `json:"contents"`
	Place       string        `json:"place" binding:"omitempty,max=255"`
	StartDate   time.Time     `json:"start_date" binding:"required"`
	EndDate     time.Time     `json:"end_date" binding:"required"`
	FirstAlarm  *time.Time    `json:"first_alarm"`
	SecondAlarm *time.Time    `json:"second_alarm"`
	BgColor     string        `json:"bg_color" binding:"omitempty,max=20"`
	Share       *ShareRequest `json:"share"`
}

// ShareRequest 일정 공유 요청. TargetIDs are user ids for USERS/GROUP, room ids for ROOMS.
type ShareRequest struct {
	Type      ShareType `json:"type" binding:"required,share_type"`
	TargetIDs []uint64  `json:"target_ids" binding:"required,min=1"`
	RoomName  string    `json:"room_name" binding:"omitempty,max=50"`
}

// MemoryResponse 일정 응답
type MemoryResponse struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Contents    string     `json:"contents"`
	Place       string     `json:"place"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	FirstAlarm  *time.Time `json:"first_alarm,omitempty"`
	SecondAlarm *time.Time `json:"second_alarm,omitempty"`
	BgColor     string     `json:"bg_color"`
	WriterID    uint64     `json:"writer_id"`
	RoomIDs     []uint64   `json:"room_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse converts the entity, attaching the rooms it is shared to
func (m *Memory) ToResponse(roomIDs []uint64) MemoryResponse {
	if roomIDs == nil {
		roomIDs = []uint64{}
	}
	return MemoryResponse{
		ID:          m.ID,
		Name:        m.Name,
		Contents:    m.Contents,
		Place:       m.Place,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		FirstAlarm:  m.FirstAlarm,
		SecondAlarm: m.SecondAlarm,
		BgColor:     m.BgColor,
		WriterID:    m.WriterID,
		RoomIDs:     roomIDs,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Apply copies the request fields onto the entity
func (req *MemoryRequest) Apply(m *Memory) {
	m.Name = req.Name
	m.Contents = req.Contents
	m.Place = req.Place
	m.StartDate = req.StartDate
	m.EndDate = req.EndDate
	m.FirstAlarm = req.FirstAlarm
	m.SecondAlarm = req.SecondAlarm
	m.BgColor = req.BgColor
}

// MemorySearchDocument is the search index representation of a memory
type MemorySearchDocument struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Contents  string    `json:"contents"`
	Place     string    `json:"place"`
	WriterID  uint64    `json:"writer_id"`
	RoomIDs   []uint64  `json:"room_ids"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
