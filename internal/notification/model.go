package notification

import "time"

// Kind classifies what a notification is about
const (
	KindExpenseAdded   = "EXPENSE_ADDED"
	KindExpenseSettled = "EXPENSE_SETTLED"
)

// Notification is an in-app message for one member
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"`
	EntityID    *string   `json:"entity_id,omitempty"` // the expense the message refers to
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
