package settlement

import "github.com/aykose/dormsync/internal/expense"

// MemberBalanceResponse is one member's net position with a display name
type MemberBalanceResponse struct {
	MemberID string  `json:"member_id"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// TransferResponse is one suggested repayment in a settlement plan
type TransferResponse struct {
	From     string  `json:"from"`
	FromName string  `json:"from_name,omitempty"`
	To       string  `json:"to"`
	ToName   string  `json:"to_name,omitempty"`
	Amount   float64 `json:"amount"`
}

// PlanResponse is the advisory settlement view for a room: current balances
// plus the greedy minimal transfer list that would zero them
type PlanResponse struct {
	RoomID    string                   `json:"room_id"`
	Balances  []*MemberBalanceResponse `json:"balances"`
	Transfers []*TransferResponse      `json:"transfers"`
}

// SettleResponse reports what a settle transition did
type SettleResponse struct {
	Expense *expense.ExpenseResponse `json:"expense"`
	// DerivedCount is how many pending direct rows were materialized for the
	// other members when a group split was individualized; zero otherwise
	DerivedCount int `json:"derived_count"`
}
