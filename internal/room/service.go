package room

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidCode    = errors.New("no room with that invite code")
	ErrNotInRoom      = errors.New("member is not in this room")
)

// Store is the persistence surface the room service needs
type Store interface {
	CreateRoom(ctx context.Context, room *Room) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	GetByCode(ctx context.Context, code string) (*Room, error)
	CreateMember(ctx context.Context, member *Member) (*Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	GetMembers(ctx context.Context, roomID string) ([]*Member, error)
	SetMemberRoom(ctx context.Context, memberID string, roomID *string) (bool, error)
}

// Service handles room business logic
type Service struct {
	store Store
}

// NewService creates a new room service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create creates a new room with a fresh invite code and moves the creator in
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateRoomRequest) (*Room, error) {
	member, err := s.store.GetMember(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	room, err := s.store.CreateRoom(ctx, &Room{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Code:      newInviteCode(),
		CreatedBy: creatorID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.SetMemberRoom(ctx, creatorID, &room.ID); err != nil {
		return nil, err
	}

	return room, nil
}

// GetWithMembers retrieves a room together with its current roster
func (s *Service) GetWithMembers(ctx context.Context, id string) (*Room, []*Member, error) {
	room, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}

	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return room, members, nil
}

// GetMembers retrieves the current roster of a room
func (s *Service) GetMembers(ctx context.Context, roomID string) ([]*Member, error) {
	room, err := s.store.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	return s.store.GetMembers(ctx, roomID)
}

// RegisterMember creates a new member with no room
func (s *Service) RegisterMember(ctx context.Context, req *RegisterMemberRequest) (*Member, error) {
	return s.store.CreateMember(ctx, &Member{
		ID:        uuid.NewString(),
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
}

// JoinByCode moves a member into the room matching the invite code
func (s *Service) JoinByCode(ctx context.Context, memberID, code string) (*Room, error) {
	room, err := s.store.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrInvalidCode
	}

	ok, err := s.store.SetMemberRoom(ctx, memberID, &room.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMemberNotFound
	}

	return room, nil
}

// Leave removes a member from a room. Their historical ledger entries are
// untouched; only the roster shrinks, which changes group-split divisors
// from the next read onward.
func (s *Service) Leave(ctx context.Context, roomID, memberID string) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}
	if member.RoomID == nil || *member.RoomID != roomID {
		return ErrNotInRoom
	}

	_, err = s.store.SetMemberRoom(ctx, memberID, nil)
	return err
}

// newInviteCode returns a short shareable room code
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
