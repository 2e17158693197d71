package room

// CreateRoomRequest represents the request to create a room
type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// JoinRoomRequest represents the request to join a room by invite code
type JoinRoomRequest struct {
	Code string `json:"code" validate:"required"`
}

// RegisterMemberRequest represents the request to register a member
type RegisterMemberRequest struct {
	Username  string  `json:"username" validate:"required,min=1,max=50"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// RoomResponse represents the response for a room, optionally with roster
type RoomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt string    `json:"created_at"`
	Members   []*Member `json:"members,omitempty"`
}

// ToResponse converts a Room model to a RoomResponse DTO
func (r *Room) ToResponse() *RoomResponse {
	return &RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
