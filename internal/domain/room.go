package domain

import "time"

// Room 공유 공간 (방)
type Room struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:50;not null" json:"name"`
	OwnerID   uint64    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Opened    bool      `gorm:"column:opened" json:"opened"`
	Used      bool      `gorm:"column:used;not null;index" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Room) TableName() string {
	return "rooms"
}

// RoomMember room_members join row
type RoomMember struct {
	RoomID    uint64    `gorm:"column:room_id;primaryKey" json:"room_id"`
	UserID    uint64    `gorm:"column:user_id;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (RoomMember) TableName() string {
	return "room_members"
}

// CreateRoomRequest 방 생성 요청
type CreateRoomRequest struct {
	Name      string   `json:"name" binding:"required,max=50"`
	MemberIDs []uint64 `json:"member_ids"`
	Opened    bool     `json:"opened"`
}

// UpdateRoomRequest 방 수정 요청
type UpdateRoomRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50"`
	Opened *bool   `json:"opened"`
}

// AddMembersRequest 방 초대 요청
type AddMembersRequest struct {
	MemberIDs []uint64 `json:"member_ids" binding:"required,min=1"`
}

// TransferOwnerRequest 방장 위임 요청
type TransferOwnerRequest struct {
	NewOwnerID uint64 `json:"new_owner_id" binding:"required"`
}

// RoomResponse 방 응답
type RoomResponse struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	OwnerID   uint64        `json:"owner_id"`
	Opened    bool          `json:"opened"`
	Private   bool          `json:"private"`
	Members   []UserSummary `json:"members,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ToResponse builds the response without members
func (r *Room) ToResponse(private bool) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		Opened:    r.Opened,
		Private:   private,
		CreatedAt: r.CreatedAt,
	}
}
