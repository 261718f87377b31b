package repository

import (
	"context"
	"testing"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: DB는 커넥션마다 별도이므로 하나로 고정
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, snsID, name string) *domain.User {
	t.Helper()
	user := &domain.User{SnsID: snsID, SnsType: domain.SnsKakao, Name: name, PushAlarm: true, Used: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createRoom(t *testing.T, db *gorm.DB, owner uint64, name string, members ...uint64) *domain.Room {
	t.Helper()
	ctx := context.Background()
	repo := NewRoomRepository(db)
	room := &domain.Room{Name: name, OwnerID: owner, Used: true}
	require.NoError(t, repo.Create(ctx, room))
	require.NoError(t, repo.AddMembers(ctx, room.ID, append([]uint64{owner}, members...)))
	return room
}
