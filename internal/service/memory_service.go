package service

import (
	"context"
	"strings"
	"time"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
	"gorm.io/gorm"
)

const memorySearchLimit = 50

// MemoryService memory (calendar event) business logic
type MemoryService interface {
	CreateMemory(ctx context.Context, writerID uint64, req *domain.MemoryRequest) (*domain.MemoryResponse, error)
	GetMemory(ctx context.Context, userID, memoryID uint64) (*domain.MemoryResponse, error)
	GetMemories(ctx context.Context, userID uint64, roomID *uint64, start, end time.Time) ([]domain.MemoryResponse, error)
	UpdateMemory(ctx context.Context, userID, memoryID uint64, req *domain.MemoryRequest) (*domain.MemoryResponse, error)
	DeleteMemory(ctx context.Context, userID, memoryID uint64, roomID *uint64) error
	ShareMemory(ctx context.Context, userID, memoryID uint64, share *domain.ShareRequest) (*domain.MemoryResponse, error)
	SearchMemories(ctx context.Context, userID uint64, keyword string) ([]domain.MemoryResponse, error)
}

type memoryService struct {
	db         *gorm.DB
	memoryRepo repository.MemoryRepository
	roomRepo   repository.RoomRepository
	userRepo   repository.UserRepository
	indexer    MemoryIndexer
	notifier   *notifier
}

// NewMemoryService creates a new MemoryService. indexer may be nil (SQL search).
func NewMemoryService(
	db *gorm.DB,
	memoryRepo repository.MemoryRepository,
	roomRepo repository.RoomRepository,
	userRepo repository.UserRepository,
	indexer MemoryIndexer,
	noticeService NoticeService,
	fcmService FcmService,
) MemoryService {
	return &memoryService{
		db:         db,
		memoryRepo: memoryRepo,
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		indexer:    indexer,
		notifier:   &notifier{notices: noticeService, fcm: fcmService},
	}
}

// CreateMemory stores the memory in the writer's private room and shares it when requested
func (s *memoryService) CreateMemory(ctx context.Context, writerID uint64, req *domain.MemoryRequest) (*domain.MemoryResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, common.ErrMemoryPeriod
	}
	writer, err := s.userRepo.FindByID(ctx, writerID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	memory := &domain.Memory{WriterID: writerID, Used: true}
	req.Apply(memory)

	var recipients []uint64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memories := s.memoryRepo.WithTx(tx)
		if err := memories.Create(ctx, memory); err != nil {
			return err
		}
		if writer.PrivateRoomID != nil {
			if err := memories.AttachRooms(ctx, memory.ID, []uint64{*writer.PrivateRoomID}); err != nil {
				return err
			}
		}
		if req.Share == nil {
			return nil
		}
		recipients, err = s.applyShare(ctx, tx, writer, memory, req.Share)
		return err
	})
	if err != nil {
		return nil, asMemoryError(err)
	}

	s.notifyShare(ctx, writer, memory, recipients)
	return s.respond(ctx, memory, true)
}

// applyShare attaches memory to the share targets inside tx and returns the users to notify
func (s *memoryService) applyShare(ctx context.Context, tx *gorm.DB, sharer *domain.User, memory *domain.Memory, share *domain.ShareRequest) ([]uint64, error) {
	memories := s.memoryRepo.WithTx(tx)
	rooms := s.roomRepo.WithTx(tx)
	users := s.userRepo.WithTx(tx)

	attached, err := memories.RoomIDs(ctx, memory.ID)
	if err != nil {
		return nil, err
	}
	already := make(map[uint64]bool, len(attached))
	for _, id := range attached {
		already[id] = true
	}

	switch share.Type {
	case domain.ShareUsers:
		targets := uniqueIDs(share.TargetIDs, sharer.ID)
		if len(targets) == 0 {
			return nil, common.ErrMemoryInvalidShare
		}
		found, err := users.FindByIDs(ctx, targets)
		if err != nil {
			return nil, err
		}
		if len(found) != len(targets) {
			return nil, common.ErrUserNotFound
		}
		roomIDs := make([]uint64, 0, len(found))
		recipients := make([]uint64, 0, len(found))
		for _, u := range found {
			if u.PrivateRoomID == nil || already[*u.PrivateRoomID] {
				continue
			}
			roomIDs = append(roomIDs, *u.PrivateRoomID)
			recipients = append(recipients, u.ID)
		}
		return recipients, memories.AttachRooms(ctx, memory.ID, roomIDs)

	case domain.ShareGroup:
		targets := uniqueIDs(share.TargetIDs, sharer.ID)
		if len(targets) == 0 {
			return nil, common.ErrMemoryInvalidShare
		}
		found, err := users.FindByIDs(ctx, targets)
		if err != nil {
			return nil, err
		}
		if len(found) != len(targets) {
			return nil, common.ErrUserNotFound
		}
		name := strings.TrimSpace(share.RoomName)
		if name == "" {
			name = memory.Name
		}
		group := &domain.Room{Name: truncate(name, 50), OwnerID: sharer.ID, Used: true}
		if err := rooms.Create(ctx, group); err != nil {
			return nil, err
		}
		if err := rooms.AddMembers(ctx, group.ID, append([]uint64{sharer.ID}, targets...)); err != nil {
			return nil, err
		}
		return targets, memories.AttachRooms(ctx, memory.ID, []uint64{group.ID})

	case domain.ShareRooms:
		roomIDs := uniqueIDs(share.TargetIDs, 0)
		if len(roomIDs) == 0 {
			return nil, common.ErrMemoryInvalidShare
		}
		newRooms := make([]uint64, 0, len(roomIDs))
		seen := map[uint64]bool{sharer.ID: true}
		recipients := make([]uint64, 0)
		for _, roomID := range roomIDs {
			if _, err := rooms.FindByID(ctx, roomID); err != nil {
				return nil, notFoundOr(err, common.ErrRoomNotFound, common.ResourceRoom)
			}
			ok, err := rooms.IsMember(ctx, roomID, sharer.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, common.ErrRoomNotMember
			}
			if already[roomID] {
				continue
			}
			newRooms = append(newRooms, roomID)

			members, err := rooms.MemberIDs(ctx, roomID)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if !seen[m] {
					seen[m] = true
					recipients = append(recipients, m)
				}
			}
		}
		return recipients, memories.AttachRooms(ctx, memory.ID, newRooms)
	}
	return nil, common.ErrMemoryInvalidShare
}

func (s *memoryService) notifyShare(ctx context.Context, sharer *domain.User, memory *domain.Memory, recipients []uint64) {
	if len(recipients) == 0 {
		return
	}
	body := pushText("push.memory_share.body", sharer.Name, memory.Name)
	for _, id := range recipients {
		s.notifier.notify(ctx, id, domain.NoticeMemoryShare, memory.ID, body)
	}
}

// respond loads the shared rooms, optionally refreshes the search index, and builds the response
func (s *memoryService) respond(ctx context.Context, memory *domain.Memory, reindex bool) (*domain.MemoryResponse, error) {
	roomIDs, err := s.memoryRepo.RoomIDs(ctx, memory.ID)
	if err != nil {
		return nil, common.Internal(common.ResourceMemory, err)
	}
	if reindex {
		s.index(ctx, memory, roomIDs)
	}
	resp := memory.ToResponse(roomIDs)
	return &resp, nil
}

func (s *memoryService) index(ctx context.Context, memory *domain.Memory, roomIDs []uint64) {
	if s.indexer == nil {
		return
	}
	doc := &domain.MemorySearchDocument{
		ID:        memory.ID,
		Name:      memory.Name,
		Contents:  memory.Contents,
		Place:     memory.Place,
		WriterID:  memory.WriterID,
		RoomIDs:   roomIDs,
		StartDate: memory.StartDate,
		EndDate:   memory.EndDate,
	}
	if err := s.indexer.Index(ctx, doc); err != nil {
		logger.GetLogger().Warn().Err(err).Uint64("memory_id", memory.ID).Msg("memory index failed")
	}
}

// viewable loads a memory the user wrote or can see through one of its rooms
func (s *memoryService) viewable(ctx context.Context, userID, memoryID uint64) (*domain.Memory, error) {
	memory, err := s.memoryRepo.FindByID(ctx, memoryID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrMemoryNotFound, common.ResourceMemory)
	}
	if memory.WriterID == userID {
		return memory, nil
	}

	shared, err := s.memoryRepo.RoomIDs(ctx, memoryID)
	if err != nil {
		return nil, common.Internal(common.ResourceMemory, err)
	}
	mine, err := s.roomRepo.RoomIDsOfUser(ctx, userID)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	member := make(map[uint64]bool, len(mine))
	for _, id := range mine {
		member[id] = true
	}
	for _, id := range shared {
		if member[id] {
			return memory, nil
		}
	}
	return nil, common.ErrMemoryNoPermission
}

func (s *memoryService) GetMemory(ctx context.Context, userID, memoryID uint64) (*domain.MemoryResponse, error) {
	memory, err := s.viewable(ctx, userID, memoryID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, memory, false)
}

// GetMemories lists memories overlapping [start, end], for one room or for all of the user's rooms
func (s *memoryService) GetMemories(ctx context.Context, userID uint64, roomID *uint64, start, end time.Time) ([]domain.MemoryResponse, error) {
	if end.Before(start) {
		return nil, common.ErrMemoryPeriod
	}

	var (
		memories []*domain.Memory
		err      error
	)
	if roomID != nil {
		if _, err := s.roomRepo.FindByID(ctx, *roomID); err != nil {
			return nil, notFoundOr(err, common.ErrRoomNotFound, common.ResourceRoom)
		}
		ok, err := s.roomRepo.IsMember(ctx, *roomID, userID)
		if err != nil {
			return nil, common.Internal(common.ResourceRoom, err)
		}
		if !ok {
			return nil, common.ErrRoomNotMember
		}
		memories, err = s.memoryRepo.FindByRoom(ctx, *roomID, start, end)
		if err != nil {
			return nil, common.Internal(common.ResourceMemory, err)
		}
	} else {
		memories, err = s.memoryRepo.FindByMember(ctx, userID, start, end)
		if err != nil {
			return nil, common.Internal(common.ResourceMemory, err)
		}
	}
	return s.respondList(ctx, memories)
}

func (s *memoryService) respondList(ctx context.Context, memories []*domain.Memory) ([]domain.MemoryResponse, error) {
	ids := make([]uint64, 0, len(memories))
	for _, m := range memories {
		ids = append(ids, m.ID)
	}
	roomsByMemory, err := s.memoryRepo.RoomIDsByMemories(ctx, ids)
	if err != nil {
		return nil, common.Internal(common.ResourceMemory, err)
	}

	result := make([]domain.MemoryResponse, 0, len(memories))
	for _, m := range memories {
		result = append(result, m.ToResponse(roomsByMemory[m.ID]))
	}
	return result, nil
}

func (s *memoryService) UpdateMemory(ctx context.Context, userID, memoryID uint64, req *domain.MemoryRequest) (*domain.MemoryResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, common.ErrMemoryPeriod
	}
	memory, err := s.memoryRepo.FindByID(ctx, memoryID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrMemoryNotFound, common.ResourceMemory)
	}
	if memory.WriterID != userID {
		return nil, common.ErrMemoryNotWriter
	}

	req.Apply(memory)
	if err := s.memoryRepo.Save(ctx, memory); err != nil {
		return nil, common.Internal(common.ResourceMemory, err)
	}
	return s.respond(ctx, memory, true)
}

// DeleteMemory deletes the whole memory for its writer. Another member
// passing roomID only takes the memory out of that room.
func (s *memoryService) DeleteMemory(ctx context.Context, userID, memoryID uint64, roomID *uint64) error {
	memory, err := s.memoryRepo.FindByID(ctx, memoryID)
	if err != nil {
		return notFoundOr(err, common.ErrMemoryNotFound, common.ResourceMemory)
	}

	if memory.WriterID == userID {
		if err := s.memoryRepo.SoftDelete(ctx, memoryID); err != nil {
			return common.Internal(common.ResourceMemory, err)
		}
		if s.indexer != nil {
			if err := s.indexer.Remove(ctx, memoryID); err != nil {
				logger.GetLogger().Warn().Err(err).Uint64("memory_id", memoryID).Msg("memory unindex failed")
			}
		}
		return nil
	}

	if roomID == nil {
		return common.ErrMemoryNotWriter
	}
	if _, err := s.roomRepo.FindByID(ctx, *roomID); err != nil {
		return notFoundOr(err, common.ErrRoomNotFound, common.ResourceRoom)
	}
	ok, err := s.roomRepo.IsMember(ctx, *roomID, userID)
	if err != nil {
		return common.Internal(common.ResourceRoom, err)
	}
	if !ok {
		return common.ErrRoomNotMember
	}

	n, err := s.memoryRepo.DetachRoom(ctx, memoryID, *roomID)
	if err != nil {
		return common.Internal(common.ResourceMemory, err)
	}
	if n == 0 {
		return common.ErrMemoryNotFound
	}
	_, err = s.respond(ctx, memory, true)
	return err
}

func (s *memoryService) ShareMemory(ctx context.Context, userID, memoryID uint64, share *domain.ShareRequest) (*domain.MemoryResponse, error) {
	memory, err := s.viewable(ctx, userID, memoryID)
	if err != nil {
		return nil, err
	}
	sharer, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}

	var recipients []uint64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipients, err = s.applyShare(ctx, tx, sharer, memory, share)
		return err
	})
	if err != nil {
		return nil, asMemoryError(err)
	}

	s.notifyShare(ctx, sharer, memory, recipients)
	return s.respond(ctx, memory, true)
}

// SearchMemories searches the index when available and falls back to SQL LIKE
func (s *memoryService) SearchMemories(ctx context.Context, userID uint64, keyword string) ([]domain.MemoryResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []domain.MemoryResponse{}, nil
	}

	if s.indexer != nil {
		memories, err := s.searchIndex(ctx, userID, keyword)
		if err == nil {
			return s.respondList(ctx, memories)
		}
		logger.GetLogger().Warn().Err(err).Msg("memory search index unavailable, using SQL")
	}

	memories, err := s.memoryRepo.SearchByKeyword(ctx, userID, keyword, memorySearchLimit)
	if err != nil {
		return nil, common.Internal(common.ResourceMemory, err)
	}
	return s.respondList(ctx, memories)
}

func (s *memoryService) searchIndex(ctx context.Context, userID uint64, keyword string) ([]*domain.Memory, error) {
	roomIDs, err := s.roomRepo.RoomIDsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.indexer.Search(ctx, keyword, roomIDs, memorySearchLimit)
	if err != nil {
		return nil, err
	}
	found, err := s.memoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 검색 점수 순서 유지
	byID := make(map[uint64]*domain.Memory, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	ordered := make([]*domain.Memory, 0, len(found))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// asMemoryError keeps domain errors and wraps the rest as memory internal errors
func asMemoryError(err error) error {
	if appErr := common.AsError(err); appErr.Kind != common.KindInternal || appErr.Key != "common.internal" {
		return appErr
	}
	return common.Internal(common.ResourceMemory, err)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
