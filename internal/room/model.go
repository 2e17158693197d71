package room

import "time"

// Room is a group of members who share expenses, joined via an invite code
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a person who can belong to at most one room. A member who
// leaves keeps their identity; only the room reference is cleared, so
// historical ledger entries naming them stay valid.
type Member struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	RoomID    *string `json:"room_id,omitempty"`
}
