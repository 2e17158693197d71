package room

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rooms   map[string]*Room
	members map[string]*Member
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:   make(map[string]*Room),
		members: make(map[string]*Member),
	}
}

func (f *fakeStore) CreateRoom(_ context.Context, room *Room) (*Room, error) {
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Room, error) {
	return f.rooms[id], nil
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*Room, error) {
	for _, r := range f.rooms {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateMember(_ context.Context, member *Member) (*Member, error) {
	f.members[member.ID] = member
	return member, nil
}

func (f *fakeStore) GetMember(_ context.Context, id string) (*Member, error) {
	return f.members[id], nil
}

func (f *fakeStore) GetMembers(_ context.Context, roomID string) ([]*Member, error) {
	var out []*Member
	for _, m := range f.members {
		if m.RoomID != nil && *m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) SetMemberRoom(_ context.Context, memberID string, roomID *string) (bool, error) {
	m, ok := f.members[memberID]
	if !ok {
		return false, nil
	}
	m.RoomID = roomID
	return true, nil
}

func seedMember(f *fakeStore, id, username string) *Member {
	m := &Member{ID: id, Username: username}
	f.members[id] = m
	return m
}

func TestCreateRoom(t *testing.T) {
	store := newFakeStore()
	seedMember(store, "creator", "Ayşe")
	svc := NewService(store)

	created, err := svc.Create(context.Background(), "creator", &CreateRoomRequest{Name: "Dorm 4B"})
	require.NoError(t, err)

	assert.Equal(t, "Dorm 4B", created.Name)
	assert.Equal(t, "creator", created.CreatedBy)
	assert.Len(t, created.Code, 6)
	assert.Equal(t, strings.ToUpper(created.Code), created.Code)

	// the creator moves into the room they created
	m := store.members["creator"]
	require.NotNil(t, m.RoomID)
	assert.Equal(t, created.ID, *m.RoomID)
}

func TestCreateRoomUnknownCreator(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), "ghost", &CreateRoomRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestJoinByCode(t *testing.T) {
	store := newFakeStore()
	seedMember(store, "m1", "Burak")
	store.rooms["r1"] = &Room{ID: "r1", Name: "Dorm 4B", Code: "AB12CD"}
	svc := NewService(store)

	t.Run("code is trimmed and case folded", func(t *testing.T) {
		joined, err := svc.JoinByCode(context.Background(), "m1", "  ab12cd ")
		require.NoError(t, err)
		assert.Equal(t, "r1", joined.ID)
		require.NotNil(t, store.members["m1"].RoomID)
		assert.Equal(t, "r1", *store.members["m1"].RoomID)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.JoinByCode(context.Background(), "m1", "ZZZZZZ")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := svc.JoinByCode(context.Background(), "ghost", "AB12CD")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestLeave(t *testing.T) {
	store := newFakeStore()
	roomID := "r1"
	store.rooms[roomID] = &Room{ID: roomID, Name: "Dorm 4B", Code: "AB12CD"}
	m := seedMember(store, "m1", "Cem")
	m.RoomID = &roomID
	svc := NewService(store)

	t.Run("not in this room", func(t *testing.T) {
		err := svc.Leave(context.Background(), "other", "m1")
		assert.ErrorIs(t, err, ErrNotInRoom)
	})

	t.Run("leaving clears the membership only", func(t *testing.T) {
		err := svc.Leave(context.Background(), roomID, "m1")
		require.NoError(t, err)
		assert.Nil(t, store.members["m1"].RoomID)
		// the room itself survives
		assert.NotNil(t, store.rooms[roomID])
	})

	t.Run("already out", func(t *testing.T) {
		err := svc.Leave(context.Background(), roomID, "m1")
		assert.ErrorIs(t, err, ErrNotInRoom)
	})

	t.Run("unknown member", func(t *testing.T) {
		err := svc.Leave(context.Background(), roomID, "ghost")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestRegisterMember(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	avatar := "https://example.com/a.png"
	m, err := svc.RegisterMember(context.Background(), &RegisterMemberRequest{
		Username:  "Deniz",
		AvatarURL: &avatar,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Deniz", m.Username)
	require.NotNil(t, m.AvatarURL)
	assert.Equal(t, avatar, *m.AvatarURL)
	assert.Nil(t, m.RoomID, "fresh members start roomless")
}

func TestGetWithMembers(t *testing.T) {
	store := newFakeStore()
	roomID := "r1"
	store.rooms[roomID] = &Room{ID: roomID, Name: "Dorm 4B", Code: "AB12CD"}
	m := seedMember(store, "m1", "Ayşe")
	m.RoomID = &roomID
	svc := NewService(store)

	room, members, err := svc.GetWithMembers(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, "Dorm 4B", room.Name)
	require.Len(t, members, 1)
	assert.Equal(t, "Ayşe", members[0].Username)

	_, _, err = svc.GetWithMembers(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestNewInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := newInviteCode()
		assert.Len(t, code, 6)
		assert.Equal(t, strings.ToUpper(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat every time")
}
