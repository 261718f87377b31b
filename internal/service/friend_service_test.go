package service

import (
	"context"
	"testing"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/pkg/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFriendService_RequestAndAccept(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "민수")
	b := env.signUp(t, "지영")

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	assert.Equal(t, domain.FriendWait, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendRequestedBy, env.statusOf(t, b.ID, a.ID))

	notices := env.noticesOf(t, b.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NoticeFriendRequest, notices[0].Type)
	assert.Equal(t, a.ID, notices[0].Value)
	env.pusher.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(m *fcm.Message) bool {
		return m.Token == "token-지영" && m.Data["type"] == string(domain.NoticeFriendRequest)
	}))

	// 중복 요청
	err := env.friendService.RequestFriend(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, common.ErrFriendAlreadyRequested)

	require.NoError(t, env.friendService.AcceptFriend(ctx, b.ID, a.ID))
	assert.Equal(t, domain.FriendFriend, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendFriend, env.statusOf(t, b.ID, a.ID))

	notices = env.noticesOf(t, a.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NoticeFriendAccept, notices[0].Type)

	err = env.friendService.RequestFriend(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, common.ErrFriendAlready)
}

func TestFriendService_RequestBackAccepts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	require.NoError(t, env.friendService.RequestFriend(ctx, b.ID, a.ID))

	assert.Equal(t, domain.FriendFriend, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendFriend, env.statusOf(t, b.ID, a.ID))
}

func TestFriendService_RequestErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	assert.ErrorIs(t, env.friendService.RequestFriend(ctx, a.ID, a.ID), common.ErrFriendSelf)
	assert.ErrorIs(t, env.friendService.RequestFriend(ctx, a.ID, 9999), common.ErrUserNotFound)

	require.NoError(t, env.friendService.PatchFriendStatus(ctx, b.ID, a.ID, domain.FriendBlock))
	assert.ErrorIs(t, env.friendService.RequestFriend(ctx, a.ID, b.ID), common.ErrFriendBlocked)
	// 차단은 단방향
	assert.Equal(t, domain.FriendNone, env.statusOf(t, a.ID, b.ID))
}

func TestFriendService_AcceptWithoutRequest(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	assert.ErrorIs(t, env.friendService.AcceptFriend(ctx, a.ID, b.ID), common.ErrFriendRequestNotFound)

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	// 요청한 쪽은 수락할 수 없음
	assert.ErrorIs(t, env.friendService.AcceptFriend(ctx, a.ID, b.ID), common.ErrFriendRequestNotFound)
}

func TestFriendService_Cancel(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	assert.ErrorIs(t, env.friendService.CancelFriend(ctx, a.ID, b.ID), common.ErrFriendRequestNotFound)

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	// 받은 쪽도 거절 가능
	require.NoError(t, env.friendService.CancelFriend(ctx, b.ID, a.ID))
	assert.Equal(t, domain.FriendNone, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendNone, env.statusOf(t, b.ID, a.ID))
}

func TestFriendService_Delete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	assert.ErrorIs(t, env.friendService.DeleteFriend(ctx, a.ID, b.ID), common.ErrFriendNotFound)

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	require.NoError(t, env.friendService.AcceptFriend(ctx, b.ID, a.ID))
	require.NoError(t, env.friendService.DeleteFriend(ctx, a.ID, b.ID))

	assert.Equal(t, domain.FriendNone, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendNone, env.statusOf(t, b.ID, a.ID))
}

func TestFriendService_BlockAndReAdd(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	require.NoError(t, env.friendService.AcceptFriend(ctx, b.ID, a.ID))

	require.NoError(t, env.friendService.PatchFriendStatus(ctx, a.ID, b.ID, domain.FriendBlock))
	assert.Equal(t, domain.FriendBlock, env.statusOf(t, a.ID, b.ID))
	assert.Equal(t, domain.FriendFriend, env.statusOf(t, b.ID, a.ID))

	require.NoError(t, env.friendService.ReAddFriend(ctx, a.ID, b.ID))
	assert.Equal(t, domain.FriendFriend, env.statusOf(t, a.ID, b.ID))

	// 상대가 친구가 아니면 재추가 불가
	c := env.signUp(t, "c")
	assert.ErrorIs(t, env.friendService.ReAddFriend(ctx, a.ID, c.ID), common.ErrFriendNotFriend)

	assert.ErrorIs(t, env.friendService.PatchFriendStatus(ctx, a.ID, c.ID, "UNKNOWN"), common.ErrFriendInvalidStatus)
}

func TestFriendService_GetFriends(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")
	c := env.signUp(t, "c")

	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, b.ID))
	require.NoError(t, env.friendService.AcceptFriend(ctx, b.ID, a.ID))
	require.NoError(t, env.friendService.RequestFriend(ctx, a.ID, c.ID))

	friends, err := env.friendService.GetFriends(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, b.ID, friends[0].User.ID)
	assert.Equal(t, domain.FriendFriend, friends[0].Status)

	waiting, err := env.friendService.GetFriends(ctx, a.ID, domain.FriendWait)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, c.ID, waiting[0].User.ID)

	// 탈퇴한 친구는 관계가 사라진다
	require.NoError(t, env.userService.DeleteUser(ctx, b.ID))
	friends, err = env.friendService.GetFriends(ctx, a.ID, domain.FriendFriend)
	require.NoError(t, err)
	assert.Empty(t, friends)
}
