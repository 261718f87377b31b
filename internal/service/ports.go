package service

import (
	"context"
	"errors"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/ws"
	"github.com/ourmemory/ourmemory-backend/pkg/fcm"
	"github.com/ourmemory/ourmemory-backend/pkg/i18n"
	"gorm.io/gorm"
)

// Pusher sends one push message (pkg/fcm.Client)
type Pusher interface {
	Send(ctx context.Context, msg *fcm.Message) (string, error)
}

// NoticePublisher delivers live events to connected clients (ws.Hub)
type NoticePublisher interface {
	Publish(userID uint64, event *ws.Event)
}

// MemoryIndexer is the full-text index of memories
type MemoryIndexer interface {
	Index(ctx context.Context, doc *domain.MemorySearchDocument) error
	Remove(ctx context.Context, memoryID uint64) error
	Search(ctx context.Context, keyword string, roomIDs []uint64, limit int) ([]uint64, error)
}

// notFoundOr maps gorm.ErrRecordNotFound to notFound and anything else to an internal error
func notFoundOr(err error, notFound *common.Error, r common.Resource) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return common.Internal(r, err)
}

// pushText renders push copy. Push messages are written in Korean.
func pushText(key string, args ...interface{}) string {
	return i18n.Default().T(i18n.LocaleKo, key, args...)
}

// uniqueIDs drops duplicates and the excluded id, keeping order
func uniqueIDs(ids []uint64, exclude uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
