package domain

import (
	"testing"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestResolveRequest(t *testing.T) {
	tests := []struct {
		name   string
		mine   FriendStatus
		theirs FriendStatus
		action RequestAction
		err    error
	}{
		{"관계 없음", FriendNone, FriendNone, RequestCreate, nil},
		{"이미 친구", FriendFriend, FriendFriend, 0, common.ErrFriendAlready},
		{"상대만 친구 유지", FriendNone, FriendFriend, 0, common.ErrFriendAlready},
		{"내가 차단", FriendBlock, FriendFriend, 0, common.ErrFriendAlready},
		{"내가 차단 (상대 없음)", FriendBlock, FriendNone, 0, common.ErrFriendBlocked},
		{"상대가 차단", FriendNone, FriendBlock, 0, common.ErrFriendBlocked},
		{"이미 요청함", FriendWait, FriendRequestedBy, 0, common.ErrFriendAlreadyRequested},
		{"상대가 먼저 요청", FriendRequestedBy, FriendWait, RequestAccept, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := ResolveRequest(tt.mine, tt.theirs)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestCheckAccept(t *testing.T) {
	assert.NoError(t, CheckAccept(FriendRequestedBy, FriendWait))
	assert.ErrorIs(t, CheckAccept(FriendWait, FriendRequestedBy), common.ErrFriendRequestNotFound)
	assert.ErrorIs(t, CheckAccept(FriendNone, FriendNone), common.ErrFriendRequestNotFound)
	assert.ErrorIs(t, CheckAccept(FriendFriend, FriendFriend), common.ErrFriendRequestNotFound)
}

func TestCheckCancel(t *testing.T) {
	assert.NoError(t, CheckCancel(FriendWait, FriendRequestedBy))
	assert.NoError(t, CheckCancel(FriendRequestedBy, FriendWait))
	assert.ErrorIs(t, CheckCancel(FriendFriend, FriendFriend), common.ErrFriendRequestNotFound)
	assert.ErrorIs(t, CheckCancel(FriendNone, FriendNone), common.ErrFriendRequestNotFound)
}

func TestCheckReAdd(t *testing.T) {
	assert.NoError(t, CheckReAdd(FriendFriend))
	assert.ErrorIs(t, CheckReAdd(FriendBlock), common.ErrFriendNotFriend)
	assert.ErrorIs(t, CheckReAdd(FriendNone), common.ErrFriendNotFriend)
}

func TestCheckPatch(t *testing.T) {
	for _, s := range []FriendStatus{FriendWait, FriendRequestedBy, FriendFriend, FriendBlock} {
		assert.NoError(t, CheckPatch(s), s)
	}
	assert.ErrorIs(t, CheckPatch("ENEMY"), common.ErrFriendInvalidStatus)
	assert.ErrorIs(t, CheckPatch(FriendNone), common.ErrFriendInvalidStatus)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, FriendNone, StatusOf(nil))
	assert.Equal(t, FriendBlock, StatusOf(&Friend{Status: FriendBlock}))
}

func TestUserToSummary_HidesClosedBirthday(t *testing.T) {
	birthday, err := ParseDate("1995-03-14")
	assert.NoError(t, err)

	u := &User{ID: 1, Name: "철수", Birthday: birthday}
	assert.Empty(t, u.ToSummary().Birthday)

	u.BirthdayOpen = true
	assert.Equal(t, "1995-03-14", u.ToSummary().Birthday)
	assert.Equal(t, "1995-03-14", u.ToResponse().Birthday)
}
