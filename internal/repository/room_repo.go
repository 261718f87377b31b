package repository

import (
	"context"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomRepository room and membership data access interface
type RoomRepository interface {
	WithTx(tx *gorm.DB) RoomRepository
	Create(ctx context.Context, room *domain.Room) error
	FindByID(ctx context.Context, id uint64) (*domain.Room, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Room, error)
	FindByMember(ctx context.Context, userID uint64, excludeRoomID uint64) ([]*domain.Room, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint64) error

	AddMembers(ctx context.Context, roomID uint64, userIDs []uint64) error
	RemoveMember(ctx context.Context, roomID, userID uint64) error
	IsMember(ctx context.Context, roomID, userID uint64) (bool, error)
	MemberIDs(ctx context.Context, roomID uint64) ([]uint64, error)
	RoomIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error)
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *roomRepository) WithTx(tx *gorm.DB) RoomRepository {
	return &roomRepository{db: tx}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// FindByID returns an active room; gorm.ErrRecordNotFound otherwise
func (r *roomRepository) FindByID(ctx context.Context, id uint64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, true).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Room, error) {
	var rooms []*domain.Room
	if len(ids) == 0 {
		return rooms, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND used = ?", ids, true).
		Order("id ASC").
		Find(&rooms).Error
	return rooms, err
}

// FindByMember 사용자가 속한 방 목록 (excludeRoomID 제외, 0이면 제외 없음)
func (r *roomRepository) FindByMember(ctx context.Context, userID uint64, excludeRoomID uint64) ([]*domain.Room, error) {
	var rooms []*domain.Room
	q := r.db.WithContext(ctx).
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ? AND rooms.used = ?", userID, true)
	if excludeRoomID != 0 {
		q = q.Where("rooms.id <> ?", excludeRoomID)
	}
	err := q.Order("rooms.id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *roomRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"used": false})
}

// AddMembers inserts memberships; existing ones are left as they are
func (r *roomRepository) AddMembers(ctx context.Context, roomID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	members := make([]domain.RoomMember, 0, len(userIDs))
	for _, id := range userIDs {
		members = append(members, domain.RoomMember{RoomID: roomID, UserID: id})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&members).Error
}

func (r *roomRepository) RemoveMember(ctx context.Context, roomID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.RoomMember{}).Error
}

// activeMembers 탈퇴하지 않은 회원의 멤버십만
func (r *roomRepository) activeMembers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Joins("JOIN users ON users.id = room_members.user_id AND users.used = ?", true)
}

// IsMember reports whether an active user belongs to the room
func (r *roomRepository) IsMember(ctx context.Context, roomID, userID uint64) (bool, error) {
	var count int64
	err := r.activeMembers(ctx).
		Where("room_members.room_id = ? AND room_members.user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs returns active members ordered by join time (earliest first).
// Withdrawn users keep their rows but are not listed.
func (r *roomRepository) MemberIDs(ctx context.Context, roomID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.activeMembers(ctx).
		Where("room_members.room_id = ?", roomID).
		Order("room_members.created_at ASC, room_members.user_id ASC").
		Pluck("room_members.user_id", &ids).Error
	return ids, err
}

// RoomIDsOfUser returns the active rooms the user belongs to
func (r *roomRepository) RoomIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Joins("JOIN rooms ON rooms.id = room_members.room_id").
		Where("room_members.user_id = ? AND rooms.used = ?", userID, true).
		Order("room_members.room_id ASC").
		Pluck("room_members.room_id", &ids).Error
	return ids, err
}
