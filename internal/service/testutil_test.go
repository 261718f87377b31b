package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/migration"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/internal/ws"
	"github.com/ourmemory/ourmemory-backend/pkg/cache"
	"github.com/ourmemory/ourmemory-backend/pkg/fcm"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
	"github.com/ourmemory/ourmemory-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockPusher is a mock implementation of Pusher
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(ctx context.Context, msg *fcm.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// MockPublisher is a mock implementation of NoticePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(userID uint64, event *ws.Event) {
	m.Called(userID, event)
}

// MockIndexer is a mock implementation of MemoryIndexer
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, doc *domain.MemorySearchDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockIndexer) Remove(ctx context.Context, memoryID uint64) error {
	return m.Called(ctx, memoryID).Error(0)
}

func (m *MockIndexer) Search(ctx context.Context, keyword string, roomIDs []uint64, limit int) ([]uint64, error) {
	args := m.Called(ctx, keyword, roomIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

// MockStorage is a mock implementation of storage.ObjectStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// testEnv wires every service against one in-memory database
type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	rooms     repository.RoomRepository
	memories  repository.MemoryRepository
	friends   repository.FriendRepository
	todos     repository.TodoRepository
	notices   repository.NoticeRepository
	pusher    *MockPusher
	publisher *MockPublisher

	userService   UserService
	roomService   RoomService
	memoryService MemoryService
	friendService FriendService
	todoService   TodoService
	noticeService NoticeService
	fcmService    FcmService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.AutoMigrate(db))
	return db
}

// newTestEnv builds the services. indexer may be nil.
func newTestEnv(t *testing.T, indexer MemoryIndexer) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		rooms:     repository.NewRoomRepository(db),
		memories:  repository.NewMemoryRepository(db),
		friends:   repository.NewFriendRepository(db),
		todos:     repository.NewTodoRepository(db),
		notices:   repository.NewNoticeRepository(db),
		pusher:    &MockPusher{},
		publisher: &MockPublisher{},
	}
	env.publisher.On("Publish", mock.Anything, mock.Anything).Maybe()
	env.pusher.On("Send", mock.Anything, mock.Anything).Return("projects/test/messages/1", nil).Maybe()

	jwtManager := jwt.NewManager("test-secret", 900, 86400)
	env.fcmService = NewFcmService(env.pusher, env.users)
	env.noticeService = NewNoticeService(env.notices, env.publisher)
	env.userService = NewUserService(db, env.users, env.rooms, env.friends, jwtManager, cache.NewService(nil), nil)
	env.roomService = NewRoomService(db, env.rooms, env.users, env.noticeService, env.fcmService)
	env.memoryService = NewMemoryService(db, env.memories, env.rooms, env.users, indexer, env.noticeService, env.fcmService)
	env.friendService = NewFriendService(env.friends, env.users, env.noticeService, env.fcmService)
	env.todoService = NewTodoService(env.todos)
	return env
}

// signUp creates an active user with a private room
func (e *testEnv) signUp(t *testing.T, name string) *domain.UserResponse {
	t.Helper()
	resp, err := e.userService.SignUp(context.Background(), &domain.SignUpRequest{
		SnsID:     fmt.Sprintf("sns-%s", name),
		SnsType:   domain.SnsKakao,
		Name:      name,
		PushToken: "token-" + name,
	})
	require.NoError(t, err)
	require.True(t, resp.NewUser)
	return &resp.User
}

func (e *testEnv) noticesOf(t *testing.T, userID uint64) []*domain.Notice {
	t.Helper()
	notices, err := e.notices.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	return notices
}

func (e *testEnv) statusOf(t *testing.T, userID, friendID uint64) domain.FriendStatus {
	t.Helper()
	f, err := e.friends.FindPair(context.Background(), userID, friendID)
	require.NoError(t, err)
	return domain.StatusOf(f)
}
