package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Store is the persistence surface the notification service needs
type Store interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id, recipientID string) (bool, error)
}

// Service handles notification business logic
type Service struct {
	store Store
}

// NewService creates a new notification service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Notify records an in-app notification for a member
func (s *Service) Notify(ctx context.Context, recipientID, message, kind, entityID string) error {
	n := &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Message:     message,
		Kind:        kind,
	}
	if entityID != "" {
		n.EntityID = &entityID
	}

	_, err := s.store.Create(ctx, n)
	return err
}

// ListByRecipient retrieves a member's notifications
func (s *Service) ListByRecipient(ctx context.Context, recipientID string, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByRecipient(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead flags one of the member's notifications as read
func (s *Service) MarkAsRead(ctx context.Context, id, recipientID string) error {
	ok, err := s.store.MarkAsRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
