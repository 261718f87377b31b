package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"gorm.io/gorm"
)

// RoomService room business logic
type RoomService interface {
	CreateRoom(ctx context.Context, ownerID uint64, req *domain.CreateRoomRequest) (*domain.RoomResponse, error)
	GetRooms(ctx context.Context, userID uint64) ([]domain.RoomResponse, error)
	GetRoom(ctx context.Context, userID, roomID uint64) (*domain.RoomResponse, error)
	UpdateRoom(ctx context.Context, userID, roomID uint64, req *domain.UpdateRoomRequest) (*domain.RoomResponse, error)
	DeleteRoom(ctx context.Context, userID, roomID uint64) error
	AddMembers(ctx context.Context, userID, roomID uint64, memberIDs []uint64) (*domain.RoomResponse, error)
	ExitRoom(ctx context.Context, userID, roomID uint64) error
	TransferOwner(ctx context.Context, userID, roomID, newOwnerID uint64) (*domain.RoomResponse, error)
}

type roomService struct {
	db       *gorm.DB
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
	notifier *notifier
}

// NewRoomService creates a new RoomService
func NewRoomService(
	db *gorm.DB,
	roomRepo repository.RoomRepository,
	userRepo repository.UserRepository,
	noticeService NoticeService,
	fcmService FcmService,
) RoomService {
	return &roomService{
		db:       db,
		roomRepo: roomRepo,
		userRepo: userRepo,
		notifier: &notifier{notices: noticeService, fcm: fcmService},
	}
}

func (s *roomService) CreateRoom(ctx context.Context, ownerID uint64, req *domain.CreateRoomRequest) (*domain.RoomResponse, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	invitees, err := s.existingUsers(ctx, uniqueIDs(req.MemberIDs, ownerID))
	if err != nil {
		return nil, err
	}

	room := &domain.Room{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: ownerID,
		Opened:  req.Opened,
		Used:    true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)
		if err := rooms.Create(ctx, room); err != nil {
			return err
		}
		return rooms.AddMembers(ctx, room.ID, append([]uint64{ownerID}, invitees...))
	})
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}

	s.notifyInvite(ctx, owner, room, invitees)
	return s.roomDetail(ctx, room, false)
}

// existingUsers checks that every id is an active user
func (s *roomService) existingUsers(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return ids, nil
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}
	if len(users) != len(ids) {
		return nil, common.ErrUserNotFound
	}
	return ids, nil
}

func (s *roomService) notifyInvite(ctx context.Context, inviter *domain.User, room *domain.Room, invitees []uint64) {
	body := pushText("push.room_invite.body", inviter.Name, room.Name)
	for _, id := range invitees {
		s.notifier.notify(ctx, id, domain.NoticeRoomInvite, room.ID, body)
	}
}

// GetRooms lists the user's rooms except the private room
func (s *roomService) GetRooms(ctx context.Context, userID uint64) ([]domain.RoomResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	var exclude uint64
	if user.PrivateRoomID != nil {
		exclude = *user.PrivateRoomID
	}

	rooms, err := s.roomRepo.FindByMember(ctx, userID, exclude)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	result := make([]domain.RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, r.ToResponse(false))
	}
	return result, nil
}

func (s *roomService) GetRoom(ctx context.Context, userID, roomID uint64) (*domain.RoomResponse, error) {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	return s.roomDetail(ctx, room, private)
}

// memberRoom loads an active room the user belongs to
func (s *roomService) memberRoom(ctx context.Context, userID, roomID uint64) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrRoomNotFound, common.ResourceRoom)
	}
	ok, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	if !ok {
		return nil, common.ErrRoomNotMember
	}
	return room, nil
}

// ownedRoom loads an active room owned by the user
func (s *roomService) ownedRoom(ctx context.Context, userID, roomID uint64) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, common.ErrRoomNotFound, common.ResourceRoom)
	}
	if room.OwnerID != userID {
		return nil, common.ErrRoomNotOwner
	}
	return room, nil
}

// isPrivateRoom reports whether room is its owner's private room
func (s *roomService) isPrivateRoom(ctx context.Context, room *domain.Room) (bool, error) {
	owner, err := s.userRepo.FindByID(ctx, room.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, common.Internal(common.ResourceUser, err)
	}
	return owner.PrivateRoomID != nil && *owner.PrivateRoomID == room.ID, nil
}

func (s *roomService) roomDetail(ctx context.Context, room *domain.Room, private bool) (*domain.RoomResponse, error) {
	memberIDs, err := s.roomRepo.MemberIDs(ctx, room.ID)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	users, err := s.userRepo.FindByIDs(ctx, memberIDs)
	if err != nil {
		return nil, common.Internal(common.ResourceUser, err)
	}
	byID := make(map[uint64]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resp := room.ToResponse(private)
	resp.Members = make([]domain.UserSummary, 0, len(memberIDs))
	for _, id := range memberIDs {
		if u, ok := byID[id]; ok {
			resp.Members = append(resp.Members, u.ToSummary())
		}
	}
	return &resp, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, userID, roomID uint64, req *domain.UpdateRoomRequest) (*domain.RoomResponse, error) {
	room, err := s.ownedRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
		fields["name"] = room.Name
	}
	if req.Opened != nil {
		room.Opened = *req.Opened
		fields["opened"] = room.Opened
	}
	if len(fields) > 0 {
		if err := s.roomRepo.UpdateFields(ctx, roomID, fields); err != nil {
			return nil, common.Internal(common.ResourceRoom, err)
		}
	}

	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	return s.roomDetail(ctx, room, private)
}

func (s *roomService) DeleteRoom(ctx context.Context, userID, roomID uint64) error {
	room, err := s.ownedRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return err
	}
	if private {
		return common.ErrPrivateRoom
	}
	if err := s.roomRepo.SoftDelete(ctx, roomID); err != nil {
		return common.Internal(common.ResourceRoom, err)
	}
	logWithUser(userID).Info().Uint64("room_id", roomID).Msg("room deleted")
	return nil
}

// AddMembers invites users; current members are skipped
func (s *roomService) AddMembers(ctx context.Context, userID, roomID uint64, memberIDs []uint64) (*domain.RoomResponse, error) {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	if private {
		return nil, common.ErrPrivateRoom
	}

	candidates, err := s.existingUsers(ctx, uniqueIDs(memberIDs, userID))
	if err != nil {
		return nil, err
	}
	current, err := s.roomRepo.MemberIDs(ctx, roomID)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	isMember := make(map[uint64]bool, len(current))
	for _, id := range current {
		isMember[id] = true
	}
	invitees := make([]uint64, 0, len(candidates))
	for _, id := range candidates {
		if !isMember[id] {
			invitees = append(invitees, id)
		}
	}

	if err := s.roomRepo.AddMembers(ctx, roomID, invitees); err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}

	if len(invitees) > 0 {
		inviter, err := s.userRepo.FindByID(ctx, userID)
		if err == nil {
			s.notifyInvite(ctx, inviter, room, invitees)
		}
	}
	return s.roomDetail(ctx, room, false)
}

// ExitRoom removes the user from the room. An owner leaving hands the room
// to the earliest remaining member; the last member leaving deletes it.
func (s *roomService) ExitRoom(ctx context.Context, userID, roomID uint64) error {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return err
	}
	if private {
		return common.ErrPrivateRoom
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)
		if err := rooms.RemoveMember(ctx, roomID, userID); err != nil {
			return err
		}
		remaining, err := rooms.MemberIDs(ctx, roomID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return rooms.SoftDelete(ctx, roomID)
		}
		if room.OwnerID == userID {
			return rooms.UpdateFields(ctx, roomID, map[string]interface{}{"owner_id": remaining[0]})
		}
		return nil
	})
	if err != nil {
		return common.Internal(common.ResourceRoom, err)
	}
	return nil
}

func (s *roomService) TransferOwner(ctx context.Context, userID, roomID, newOwnerID uint64) (*domain.RoomResponse, error) {
	room, err := s.ownedRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	private, err := s.isPrivateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	if private {
		return nil, common.ErrPrivateRoom
	}
	ok, err := s.roomRepo.IsMember(ctx, roomID, newOwnerID)
	if err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	if !ok {
		return nil, common.ErrRoomOwnerNotMember
	}

	if err := s.roomRepo.UpdateFields(ctx, roomID, map[string]interface{}{"owner_id": newOwnerID}); err != nil {
		return nil, common.Internal(common.ResourceRoom, err)
	}
	room.OwnerID = newOwnerID
	return s.roomDetail(ctx, room, false)
}
