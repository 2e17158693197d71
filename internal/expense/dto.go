package expense

// CreateExpenseRequest represents the request to create an expense.
// A "group" split writes one lazily-divided row; a "direct" split writes
// one frozen row per debtor in DebtorIDs.
type CreateExpenseRequest struct {
	RoomID      string   `json:"room_id" validate:"required"`
	Description string   `json:"description" validate:"required,min=1,max=255"`
	Amount      float64  `json:"amount" validate:"required,gt=0"`
	SplitType   string   `json:"split_type" validate:"required,oneof=group direct"`
	DebtorIDs   []string `json:"debtor_ids,omitempty"` // direct splits only
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"room_id"`
	PaidBy        string    `json:"paid_by"`
	PayerName     string    `json:"payer_name,omitempty"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	SplitWith     *string   `json:"split_with,omitempty"`
	SplitWithName string    `json:"split_with_name,omitempty"`
	Type          SplitType `json:"type"`
	Status        Status    `json:"status"`
	CreatedAt     string    `json:"created_at"`
}

// DebtItem is one pending row seen from a particular member's side,
// with the share that actually changes hands for that row
type DebtItem struct {
	Expense *ExpenseResponse `json:"expense"`
	Share   float64          `json:"share"`
}

// DebtView is the "money you owe" / "owed to you" breakdown for one member
type DebtView struct {
	MemberID  string      `json:"member_id"`
	Balance   float64     `json:"balance"`
	IOwe      []*DebtItem `json:"i_owe"`
	OwedToMe  []*DebtItem `json:"owed_to_me"`
}

// MemberBalance is one member's net position in a room
type MemberBalance struct {
	MemberID string  `json:"member_id"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		RoomID:        e.RoomID,
		PaidBy:        e.PaidBy,
		PayerName:     e.PayerName,
		Description:   e.Description,
		Amount:        e.Amount,
		SplitWith:     e.SplitWith,
		SplitWithName: e.SplitWithName,
		Type:          e.Type,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
