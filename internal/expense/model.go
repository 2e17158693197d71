package expense

import (
	"time"

	"github.com/aykose/dormsync/internal/expense/balance"
)

// SplitType says how an expense's cost is distributed
type SplitType string

const (
	// SplitTypeGroup is a lazy split: the whole current roster shares the
	// cost, with the divisor evaluated whenever the ledger is read.
	SplitTypeGroup SplitType = "group"
	// SplitTypeDirect is a debt owed in full by one member to the payer.
	SplitTypeDirect SplitType = "direct"
)

// Status represents the lifecycle state of an expense
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Expense is a single ledger entry for a room.
//
// A nil SplitWith means the cost is conceptually shared by every current
// room member (group split); a non-nil SplitWith pins the whole amount on
// that one member (direct split). A paid entry is immutable history.
type Expense struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	PaidBy      string     `json:"paid_by"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	SplitWith   *string    `json:"split_with,omitempty"`
	Type        SplitType  `json:"type"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Populated via JOIN
	PayerName     string `json:"payer_name,omitempty"`
	SplitWithName string `json:"split_with_name,omitempty"`
}

// IsDirect reports whether this entry is a direct debt. All consumers go
// through this one predicate; nothing else inspects SplitWith directly.
func (e *Expense) IsDirect() bool {
	return e.SplitWith != nil
}

// BalanceEntry projects the expense into the calculator's input shape
func (e *Expense) BalanceEntry() balance.Entry {
	entry := balance.Entry{PaidBy: e.PaidBy, Amount: e.Amount}
	if e.IsDirect() {
		entry.SplitWith = *e.SplitWith
	}
	return entry
}

// ShareOwed returns what a single debtor owes on this entry: the full
// amount for a direct debt, an equal share of the current roster otherwise.
func (e *Expense) ShareOwed(rosterSize int) float64 {
	if e.IsDirect() {
		return e.Amount
	}
	if rosterSize < 1 {
		rosterSize = 1
	}
	return e.Amount / float64(rosterSize)
}

// OwedToPayer returns what this entry is worth to the payer: the full amount
// for a direct debt, everything except the payer's own share otherwise.
func (e *Expense) OwedToPayer(rosterSize int) float64 {
	if e.IsDirect() {
		return e.Amount
	}
	if rosterSize < 1 {
		rosterSize = 1
	}
	return e.Amount - e.Amount/float64(rosterSize)
}
