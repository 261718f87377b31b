package domain

import "time"

// NoticeType 알림 종류
type NoticeType string

const (
	NoticeFriendRequest NoticeType = "FRIEND_REQUEST"
	NoticeFriendAccept  NoticeType = "FRIEND_ACCEPT"
	NoticeRoomInvite    NoticeType = "ROOM_INVITE"
	NoticeMemoryShare   NoticeType = "MEMORY_SHARE"
)

// Notice 알림. Value holds the related id (user, room or memory).
type Notice struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Type      NoticeType `gorm:"column:type;size:30;not null" json:"type"`
	Value     uint64     `gorm:"column:value" json:"value"`
	IsRead    bool       `gorm:"column:is_read" json:"is_read"`
	Used      bool       `gorm:"column:used;not null" json:"-"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Notice) TableName() string {
	return "notices"
}

// NoticeEvent is pushed to websocket clients when a notice is created
type NoticeEvent struct {
	Type   string  `json:"type"`
	Notice *Notice `json:"notice"`
}

// FcmSendRequest 푸시 직접 발송 요청
type FcmSendRequest struct {
	Token string            `json:"token" binding:"required"`
	Title string            `json:"title" binding:"required,max=100"`
	Body  string            `json:"body" binding:"required,max=1000"`
	Data  map[string]string `json:"data"`
}

// FcmSendResponse 푸시 발송 결과
type FcmSendResponse struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"message_id,omitempty"`
}
