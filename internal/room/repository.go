package room

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles room and member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new room repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRoom inserts a new room into the database
func (r *Repository) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	query := `
		INSERT INTO rooms (id, name, code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, code, created_by, created_at
	`

	created := &Room{}
	err := r.db.QueryRowContext(ctx, query, room.ID, room.Name, room.Code, room.CreatedBy).Scan(
		&created.ID,
		&created.Name,
		&created.Code,
		&created.CreatedBy,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return created, nil
}

// GetByID retrieves a room by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Room, error) {
	query := `SELECT id, name, code, created_by, created_at FROM rooms WHERE id = $1`

	room := &Room{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Code,
		&room.CreatedBy,
		&room.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// GetByCode retrieves a room by its invite code
func (r *Repository) GetByCode(ctx context.Context, code string) (*Room, error) {
	query := `SELECT id, name, code, created_by, created_at FROM rooms WHERE code = $1`

	room := &Room{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&room.ID,
		&room.Name,
		&room.Code,
		&room.CreatedBy,
		&room.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}

	return room, nil
}

// CreateMember inserts a new member into the database
func (r *Repository) CreateMember(ctx context.Context, member *Member) (*Member, error) {
	query := `
		INSERT INTO members (id, username, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, username, avatar_url, room_id
	`

	created := &Member{}
	err := r.db.QueryRowContext(ctx, query, member.ID, member.Username, member.AvatarURL).Scan(
		&created.ID,
		&created.Username,
		&created.AvatarURL,
		&created.RoomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return created, nil
}

// GetMember retrieves a member by their ID
func (r *Repository) GetMember(ctx context.Context, id string) (*Member, error) {
	query := `SELECT id, username, avatar_url, room_id FROM members WHERE id = $1`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID,
		&member.Username,
		&member.AvatarURL,
		&member.RoomID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves the current roster of a room in a stable order,
// so every balance read sees the same roster sequence
func (r *Repository) GetMembers(ctx context.Context, roomID string) ([]*Member, error) {
	query := `
		SELECT id, username, avatar_url, room_id
		FROM members
		WHERE room_id = $1
		ORDER BY username, id
	`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.ID,
			&member.Username,
			&member.AvatarURL,
			&member.RoomID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// SetMemberRoom moves a member into a room, or out of any room when roomID
// is nil. Returns false when the member does not exist.
func (r *Repository) SetMemberRoom(ctx context.Context, memberID string, roomID *string) (bool, error) {
	query := `UPDATE members SET room_id = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, memberID, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to update member room: %w", err)
	}

	affected, _ := result.RowsAffected()
	return affected > 0, nil
}
