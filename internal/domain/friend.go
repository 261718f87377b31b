package domain

import (
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/common"
)

// FriendStatus is one user's view of the relationship with another user.
// Row (A,B) holds A's status toward B.
type FriendStatus string

const (
	// FriendNone means no row exists
	FriendNone FriendStatus = ""
	// FriendWait 내가 요청하고 기다리는 중
	FriendWait FriendStatus = "WAIT"
	// FriendRequestedBy 상대방이 나에게 요청함
	FriendRequestedBy FriendStatus = "REQUESTED_BY"
	FriendFriend      FriendStatus = "FRIEND"
	// FriendBlock 단방향 차단
	FriendBlock FriendStatus = "BLOCK"
)

// IsValid reports whether s is a storable status
func (s FriendStatus) IsValid() bool {
	switch s {
	case FriendWait, FriendRequestedBy, FriendFriend, FriendBlock:
		return true
	}
	return false
}

// Friend 친구 관계 row
type Friend struct {
	ID           uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64       `gorm:"column:user_id;not null;uniqueIndex:uk_friends_pair" json:"user_id"`
	FriendUserID uint64       `gorm:"column:friend_user_id;not null;uniqueIndex:uk_friends_pair;index" json:"friend_user_id"`
	Status       FriendStatus `gorm:"column:status;size:20;not null" json:"status"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Friend) TableName() string {
	return "friends"
}

// StatusOf returns the status of a possibly missing row
func StatusOf(f *Friend) FriendStatus {
	if f == nil {
		return FriendNone
	}
	return f.Status
}

// RequestAction is what a friend request resolves to
type RequestAction int

const (
	// RequestCreate writes (A,B)=WAIT and (B,A)=REQUESTED_BY
	RequestCreate RequestAction = iota + 1
	// RequestAccept B already asked A, so the request accepts it
	RequestAccept
)

// ResolveRequest decides how A's request to B proceeds given both rows.
func ResolveRequest(mine, theirs FriendStatus) (RequestAction, error) {
	switch {
	case mine == FriendFriend || theirs == FriendFriend:
		return 0, common.ErrFriendAlready
	case mine == FriendBlock || theirs == FriendBlock:
		return 0, common.ErrFriendBlocked
	case mine == FriendWait:
		return 0, common.ErrFriendAlreadyRequested
	case mine == FriendRequestedBy && theirs == FriendWait:
		return RequestAccept, nil
	}
	return RequestCreate, nil
}

// CheckAccept A can accept only a request B sent
func CheckAccept(mine, theirs FriendStatus) error {
	if mine != FriendRequestedBy || theirs != FriendWait {
		return common.ErrFriendRequestNotFound
	}
	return nil
}

// CheckCancel requires a pending pair in either direction
func CheckCancel(mine, theirs FriendStatus) error {
	pending := (mine == FriendWait && theirs == FriendRequestedBy) ||
		(mine == FriendRequestedBy && theirs == FriendWait)
	if !pending {
		return common.ErrFriendRequestNotFound
	}
	return nil
}

// CheckReAdd A can restore the friendship only while B still holds FRIEND
func CheckReAdd(theirs FriendStatus) error {
	if theirs != FriendFriend {
		return common.ErrFriendNotFriend
	}
	return nil
}

// CheckPatch validates a direct status overwrite
func CheckPatch(status FriendStatus) error {
	if !status.IsValid() {
		return common.ErrFriendInvalidStatus
	}
	return nil
}

// PatchFriendStatusRequest 친구 상태 변경 요청
type PatchFriendStatusRequest struct {
	Status FriendStatus `json:"status" binding:"required,friend_status"`
}

// FriendResponse 친구 목록 항목
type FriendResponse struct {
	User      UserSummary  `json:"user"`
	Status    FriendStatus `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}
