package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func may(day int) time.Time {
	return time.Date(2024, time.May, day, 10, 0, 0, 0, time.UTC)
}

func memoryRequest(name string, start, end int) *domain.MemoryRequest {
	return &domain.MemoryRequest{
		Name:      name,
		Contents:  name + " 내용",
		Place:     "서울",
		StartDate: may(start),
		EndDate:   may(end),
		BgColor:   "#FFAA00",
	}
}

func TestMemoryService_CreateAndList(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")

	created, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("생일", 3, 4))
	require.NoError(t, err)
	assert.Equal(t, []uint64{*a.PrivateRoomID}, created.RoomIDs)

	list, err := env.memoryService.GetMemories(ctx, a.ID, nil, may(1), may(31))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	inRoom, err := env.memoryService.GetMemories(ctx, a.ID, a.PrivateRoomID, may(4), may(4))
	require.NoError(t, err)
	assert.Len(t, inRoom, 1)

	outside, err := env.memoryService.GetMemories(ctx, a.ID, nil, may(10), may(20))
	require.NoError(t, err)
	assert.Empty(t, outside)
}

func TestMemoryService_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t, nil)
	a := env.signUp(t, "a")

	_, err := env.memoryService.CreateMemory(context.Background(), a.ID, memoryRequest("x", 5, 4))
	assert.ErrorIs(t, err, common.ErrMemoryPeriod)

	_, err = env.memoryService.GetMemories(context.Background(), a.ID, nil, may(5), may(4))
	assert.ErrorIs(t, err, common.ErrMemoryPeriod)
}

func TestMemoryService_ShareToUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")
	c := env.signUp(t, "c")

	req := memoryRequest("여행", 1, 3)
	req.Share = &domain.ShareRequest{Type: domain.ShareUsers, TargetIDs: []uint64{b.ID, a.ID}}
	created, err := env.memoryService.CreateMemory(ctx, a.ID, req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{*a.PrivateRoomID, *b.PrivateRoomID}, created.RoomIDs)

	got, err := env.memoryService.GetMemory(ctx, b.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "여행", got.Name)

	_, err = env.memoryService.GetMemory(ctx, c.ID, created.ID)
	assert.ErrorIs(t, err, common.ErrMemoryNoPermission)

	notices := env.noticesOf(t, b.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NoticeMemoryShare, notices[0].Type)
	assert.Equal(t, created.ID, notices[0].Value)
	assert.Empty(t, env.noticesOf(t, a.ID))

	// 이미 공유된 대상은 건너뛴다
	_, err = env.memoryService.ShareMemory(ctx, a.ID, created.ID,
		&domain.ShareRequest{Type: domain.ShareUsers, TargetIDs: []uint64{b.ID}})
	require.NoError(t, err)
	assert.Len(t, env.noticesOf(t, b.ID), 1)

	_, err = env.memoryService.ShareMemory(ctx, a.ID, created.ID,
		&domain.ShareRequest{Type: domain.ShareUsers, TargetIDs: []uint64{a.ID}})
	assert.ErrorIs(t, err, common.ErrMemoryInvalidShare)

	_, err = env.memoryService.ShareMemory(ctx, a.ID, created.ID,
		&domain.ShareRequest{Type: domain.ShareUsers, TargetIDs: []uint64{12345}})
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestMemoryService_ShareToGroup(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")
	c := env.signUp(t, "c")

	created, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("모임", 1, 1))
	require.NoError(t, err)

	shared, err := env.memoryService.ShareMemory(ctx, a.ID, created.ID, &domain.ShareRequest{
		Type:      domain.ShareGroup,
		TargetIDs: []uint64{b.ID, c.ID},
	})
	require.NoError(t, err)
	require.Len(t, shared.RoomIDs, 2)

	rooms, err := env.roomService.GetRooms(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "모임", rooms[0].Name)
	assert.Equal(t, a.ID, rooms[0].OwnerID)

	detail, err := env.roomService.GetRoom(ctx, c.ID, rooms[0].ID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 3)

	assert.Len(t, env.noticesOf(t, b.ID), 1)
	assert.Len(t, env.noticesOf(t, c.ID), 1)
}

func TestMemoryService_ShareToRooms(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")
	c := env.signUp(t, "c")

	room, err := env.roomService.CreateRoom(ctx, a.ID, &domain.CreateRoomRequest{Name: "가족", MemberIDs: []uint64{b.ID}})
	require.NoError(t, err)
	other, err := env.roomService.CreateRoom(ctx, c.ID, &domain.CreateRoomRequest{Name: "남의 방"})
	require.NoError(t, err)

	created, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("저녁", 2, 2))
	require.NoError(t, err)

	_, err = env.memoryService.ShareMemory(ctx, a.ID, created.ID,
		&domain.ShareRequest{Type: domain.ShareRooms, TargetIDs: []uint64{other.ID}})
	assert.ErrorIs(t, err, common.ErrRoomNotMember)

	shared, err := env.memoryService.ShareMemory(ctx, a.ID, created.ID,
		&domain.ShareRequest{Type: domain.ShareRooms, TargetIDs: []uint64{room.ID}})
	require.NoError(t, err)
	assert.Contains(t, shared.RoomIDs, room.ID)

	list, err := env.memoryService.GetMemories(ctx, b.ID, &room.ID, may(1), may(3))
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.memoryService.GetMemories(ctx, c.ID, &room.ID, may(1), may(3))
	assert.ErrorIs(t, err, common.ErrRoomNotMember)
}

func TestMemoryService_Update(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	created, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("원래", 1, 2))
	require.NoError(t, err)

	_, err = env.memoryService.UpdateMemory(ctx, b.ID, created.ID, memoryRequest("수정", 1, 2))
	assert.ErrorIs(t, err, common.ErrMemoryNotWriter)

	updated, err := env.memoryService.UpdateMemory(ctx, a.ID, created.ID, memoryRequest("수정", 2, 3))
	require.NoError(t, err)
	assert.Equal(t, "수정", updated.Name)
	assert.True(t, updated.EndDate.Equal(may(3)))

	_, err = env.memoryService.UpdateMemory(ctx, a.ID, 9999, memoryRequest("x", 1, 1))
	assert.ErrorIs(t, err, common.ErrMemoryNotFound)
}

func TestMemoryService_Delete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	req := memoryRequest("공유", 1, 1)
	req.Share = &domain.ShareRequest{Type: domain.ShareUsers, TargetIDs: []uint64{b.ID}}
	created, err := env.memoryService.CreateMemory(ctx, a.ID, req)
	require.NoError(t, err)

	assert.ErrorIs(t, env.memoryService.DeleteMemory(ctx, b.ID, created.ID, nil), common.ErrMemoryNotWriter)

	// 작성자가 아니면 자기 방에서만 제거
	require.NoError(t, env.memoryService.DeleteMemory(ctx, b.ID, created.ID, b.PrivateRoomID))
	_, err = env.memoryService.GetMemory(ctx, b.ID, created.ID)
	assert.ErrorIs(t, err, common.ErrMemoryNoPermission)
	assert.ErrorIs(t, env.memoryService.DeleteMemory(ctx, b.ID, created.ID, b.PrivateRoomID), common.ErrMemoryNotFound)

	got, err := env.memoryService.GetMemory(ctx, a.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{*a.PrivateRoomID}, got.RoomIDs)

	require.NoError(t, env.memoryService.DeleteMemory(ctx, a.ID, created.ID, nil))
	_, err = env.memoryService.GetMemory(ctx, a.ID, created.ID)
	assert.ErrorIs(t, err, common.ErrMemoryNotFound)
}

func TestMemoryService_SearchSQL(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	_, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("제주 여행", 1, 3))
	require.NoError(t, err)
	_, err = env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("회의", 4, 4))
	require.NoError(t, err)
	_, err = env.memoryService.CreateMemory(ctx, b.ID, memoryRequest("제주 출장", 1, 1))
	require.NoError(t, err)

	found, err := env.memoryService.SearchMemories(ctx, a.ID, "제주")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "제주 여행", found[0].Name)

	empty, err := env.memoryService.SearchMemories(ctx, a.ID, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryService_SearchIndex(t *testing.T) {
	indexer := &MockIndexer{}
	indexer.On("Index", mock.Anything, mock.Anything).Return(nil)
	env := newTestEnv(t, indexer)
	ctx := context.Background()
	a := env.signUp(t, "a")

	first, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("바다", 1, 1))
	require.NoError(t, err)
	second, err := env.memoryService.CreateMemory(ctx, a.ID, memoryRequest("바다 산", 2, 2))
	require.NoError(t, err)
	indexer.AssertNumberOfCalls(t, "Index", 2)

	// 검색엔진 점수 순서를 유지한다
	indexer.On("Search", mock.Anything, "바다", []uint64{*a.PrivateRoomID}, memorySearchLimit).
		Return([]uint64{second.ID, first.ID}, nil).Once()
	found, err := env.memoryService.SearchMemories(ctx, a.ID, "바다")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, second.ID, found[0].ID)
	assert.Equal(t, first.ID, found[1].ID)

	// 검색엔진 장애 시 SQL로 대체
	indexer.On("Search", mock.Anything, "산", mock.Anything, memorySearchLimit).
		Return(nil, errors.New("connection refused")).Once()
	found, err = env.memoryService.SearchMemories(ctx, a.ID, "산")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	indexer.On("Remove", mock.Anything, first.ID).Return(nil).Once()
	require.NoError(t, env.memoryService.DeleteMemory(ctx, a.ID, first.ID, nil))
	indexer.AssertExpectations(t)
}

func TestMemoryService_DeletedRoomHidden(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.signUp(t, "a")
	b := env.signUp(t, "b")

	room, err := env.roomService.CreateRoom(ctx, a.ID, &domain.CreateRoomRequest{Name: "가족", MemberIDs: []uint64{b.ID}})
	require.NoError(t, err)
	req := memoryRequest("제주 여행", 2, 3)
	req.Share = &domain.ShareRequest{Type: domain.ShareRooms, TargetIDs: []uint64{room.ID}}
	created, err := env.memoryService.CreateMemory(ctx, a.ID, req)
	require.NoError(t, err)

	list, err := env.memoryService.GetMemories(ctx, b.ID, nil, may(1), may(31))
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.roomService.DeleteRoom(ctx, a.ID, room.ID))

	// 목록, 검색, 상세 모두 같은 결과
	list, err = env.memoryService.GetMemories(ctx, b.ID, nil, may(1), may(31))
	require.NoError(t, err)
	assert.Empty(t, list)

	found, err := env.memoryService.SearchMemories(ctx, b.ID, "제주")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = env.memoryService.GetMemory(ctx, b.ID, created.ID)
	assert.ErrorIs(t, err, common.ErrMemoryNoPermission)

	// 작성자는 개인 방으로 계속 조회
	list, err = env.memoryService.GetMemories(ctx, a.ID, nil, may(1), may(31))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
