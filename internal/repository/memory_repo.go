package repository

import (
	"context"
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memberRoomsSubQuery 사용자가 속한 (삭제되지 않은) 방에 공유된 일정 id
const memberRoomsSubQuery = "memories.id IN (SELECT memory_id FROM memory_rooms WHERE room_id IN " +
	"(SELECT rm.room_id FROM room_members rm JOIN rooms r ON r.id = rm.room_id AND r.used = ? WHERE rm.user_id = ?))"

// MemoryRepository memory data access interface
type MemoryRepository interface {
	WithTx(tx *gorm.DB) MemoryRepository
	Create(ctx context.Context, memory *domain.Memory) error
	Save(ctx context.Context, memory *domain.Memory) error
	FindByID(ctx context.Context, id uint64) (*domain.Memory, error)
	FindByRoom(ctx context.Context, roomID uint64, start, end time.Time) ([]*domain.Memory, error)
	FindByMember(ctx context.Context, userID uint64, start, end time.Time) ([]*domain.Memory, error)
	SearchByKeyword(ctx context.Context, userID uint64, keyword string, limit int) ([]*domain.Memory, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Memory, error)
	SoftDelete(ctx context.Context, id uint64) error

	AttachRooms(ctx context.Context, memoryID uint64, roomIDs []uint64) error
	DetachRoom(ctx context.Context, memoryID, roomID uint64) (int64, error)
	RoomIDs(ctx context.Context, memoryID uint64) ([]uint64, error)
	RoomIDsByMemories(ctx context.Context, memoryIDs []uint64) (map[uint64][]uint64, error)
}

type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *memoryRepository) WithTx(tx *gorm.DB) MemoryRepository {
	return &memoryRepository{db: tx}
}

func (r *memoryRepository) Create(ctx context.Context, memory *domain.Memory) error {
	return r.db.WithContext(ctx).Create(memory).Error
}

func (r *memoryRepository) Save(ctx context.Context, memory *domain.Memory) error {
	return r.db.WithContext(ctx).Save(memory).Error
}

// FindByID returns an active memory; gorm.ErrRecordNotFound otherwise
func (r *memoryRepository) FindByID(ctx context.Context, id uint64) (*domain.Memory, error) {
	var memory domain.Memory
	err := r.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, true).
		First(&memory).Error
	if err != nil {
		return nil, err
	}
	return &memory, nil
}

// overlapping keeps memories whose [start_date, end_date] intersects [start, end]
func overlapping(db *gorm.DB, start, end time.Time) *gorm.DB {
	return db.Where("memories.used = ? AND memories.start_date <= ? AND memories.end_date >= ?", true, end, start)
}

// FindByRoom 방에 공유된 일정 (기간 겹침)
func (r *memoryRepository) FindByRoom(ctx context.Context, roomID uint64, start, end time.Time) ([]*domain.Memory, error) {
	var memories []*domain.Memory
	q := r.db.WithContext(ctx).
		Where("memories.id IN (SELECT memory_id FROM memory_rooms WHERE room_id = ?)", roomID)
	err := overlapping(q, start, end).
		Order("memories.start_date ASC, memories.id ASC").
		Find(&memories).Error
	return memories, err
}

// FindByMember 사용자가 속한 모든 방의 일정 (기간 겹침)
func (r *memoryRepository) FindByMember(ctx context.Context, userID uint64, start, end time.Time) ([]*domain.Memory, error) {
	var memories []*domain.Memory
	q := r.db.WithContext(ctx).Where(memberRoomsSubQuery, true, userID)
	err := overlapping(q, start, end).
		Order("memories.start_date ASC, memories.id ASC").
		Find(&memories).Error
	return memories, err
}

// SearchByKeyword LIKE 검색 (검색엔진 비활성 시 사용)
func (r *memoryRepository) SearchByKeyword(ctx context.Context, userID uint64, keyword string, limit int) ([]*domain.Memory, error) {
	var memories []*domain.Memory
	pattern := containsPattern(keyword)
	err := r.db.WithContext(ctx).
		Where(memberRoomsSubQuery, true, userID).
		Where("memories.used = ?", true).
		Where("(memories.name LIKE ? ESCAPE '!' OR memories.contents LIKE ? ESCAPE '!' OR memories.place LIKE ? ESCAPE '!')",
			pattern, pattern, pattern).
		Order("memories.start_date DESC, memories.id DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}

func (r *memoryRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Memory, error) {
	var memories []*domain.Memory
	if len(ids) == 0 {
		return memories, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND used = ?", ids, true).
		Find(&memories).Error
	return memories, err
}

func (r *memoryRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Memory{}).
		Where("id = ?", id).
		Update("used", false).Error
}

// AttachRooms shares the memory to rooms; already attached rooms are skipped
func (r *memoryRepository) AttachRooms(ctx context.Context, memoryID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	rows := make([]domain.MemoryRoom, 0, len(roomIDs))
	for _, id := range roomIDs {
		rows = append(rows, domain.MemoryRoom{MemoryID: memoryID, RoomID: id})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// DetachRoom removes one share, returning the number of rows removed
func (r *memoryRepository) DetachRoom(ctx context.Context, memoryID, roomID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("memory_id = ? AND room_id = ?", memoryID, roomID).
		Delete(&domain.MemoryRoom{})
	return result.RowsAffected, result.Error
}

func (r *memoryRepository) RoomIDs(ctx context.Context, memoryID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&domain.MemoryRoom{}).
		Where("memory_id = ?", memoryID).
		Order("room_id ASC").
		Pluck("room_id", &ids).Error
	return ids, err
}

// RoomIDsByMemories loads shares for several memories in one query
func (r *memoryRepository) RoomIDsByMemories(ctx context.Context, memoryIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(memoryIDs))
	if len(memoryIDs) == 0 {
		return result, nil
	}
	var rows []domain.MemoryRoom
	err := r.db.WithContext(ctx).
		Where("memory_id IN ?", memoryIDs).
		Order("memory_id ASC, room_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.MemoryID] = append(result[row.MemoryID], row.RoomID)
	}
	return result, nil
}
