package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aykose/dormsync/internal/expense"
	"github.com/aykose/dormsync/internal/expense/balance"
	"github.com/aykose/dormsync/internal/room"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrAlreadySettled  = errors.New("expense is already settled")
	ErrConflict        = errors.New("expense was settled concurrently, reload and retry")
)

// LedgerStore is the slice of the expense repository the engine needs
type LedgerStore interface {
	GetByID(ctx context.Context, id string) (*expense.Expense, error)
	ListPendingByRoom(ctx context.Context, roomID string) ([]*expense.Expense, error)
	MarkPaidIfPending(ctx context.Context, id string) (bool, error)
	MaterializeGroupSettlement(ctx context.Context, expenseID, settlerID string, share float64, derived []*expense.Expense) (bool, error)
}

// MemberLister supplies the current roster of a room
type MemberLister interface {
	GetMembers(ctx context.Context, roomID string) ([]*room.Member, error)
}

// Notifier delivers in-app notifications
type Notifier interface {
	Notify(ctx context.Context, recipientID, message, kind, entityID string) error
}

// Service is the settlement engine: the advisory transfer plan and the
// stateful settle transition
type Service struct {
	ledger   LedgerStore
	rooms    MemberLister
	notifier Notifier
}

// NewService creates a new settlement service
func NewService(ledger LedgerStore, rooms MemberLister, notifier Notifier) *Service {
	return &Service{
		ledger:   ledger,
		rooms:    rooms,
		notifier: notifier,
	}
}

// Plan computes current balances for a room and the greedy transfer list
// that would zero them. Read-only.
func (s *Service) Plan(ctx context.Context, roomID string) (*PlanResponse, error) {
	members, err := s.rooms.GetMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	pending, err := s.ledger.ListPendingByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(members))
	roster := make([]string, len(members))
	for i, m := range members {
		roster[i] = m.ID
		names[m.ID] = m.Username
	}

	entries := make([]balance.Entry, len(pending))
	for i, e := range pending {
		entries[i] = e.BalanceEntry()
	}

	sheet := balance.Compute(entries, roster)
	transfers := balance.Simplify(sheet)

	plan := &PlanResponse{
		RoomID:    roomID,
		Balances:  make([]*MemberBalanceResponse, 0, sheet.Len()),
		Transfers: make([]*TransferResponse, 0, len(transfers)),
	}
	for _, id := range sheet.Members() {
		amt, _ := sheet.Amount(id)
		plan.Balances = append(plan.Balances, &MemberBalanceResponse{
			MemberID: id,
			Username: names[id],
			Amount:   amt,
		})
	}
	for _, t := range transfers {
		plan.Transfers = append(plan.Transfers, &TransferResponse{
			From:     t.From,
			FromName: names[t.From],
			To:       t.To,
			ToName:   names[t.To],
			Amount:   t.Amount,
		})
	}

	return plan, nil
}

// Settle marks a debt as paid on behalf of settlerID.
//
// A still-unsplit group expense is individualized first: the original row
// becomes the settler's paid direct share and every other current member
// (except the payer) gets a fresh pending direct row carrying the original
// timestamp. An already-direct pending row just flips to paid. Settling a
// paid row is a no-op reported as ErrAlreadySettled.
func (s *Service) Settle(ctx context.Context, expenseID, settlerID string) (*SettleResponse, error) {
	e, err := s.ledger.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	if e.Status == expense.StatusPaid {
		return nil, ErrAlreadySettled
	}

	members, err := s.rooms.GetMembers(ctx, e.RoomID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Username
	}

	var derivedCount int
	if !e.IsDirect() {
		n := len(members)
		if n < 1 {
			n = 1
		}
		share := e.Amount / float64(n)

		var derived []*expense.Expense
		for _, m := range members {
			if m.ID == e.PaidBy || m.ID == settlerID {
				continue
			}
			debtor := m.ID
			derived = append(derived, &expense.Expense{
				ID:          uuid.NewString(),
				RoomID:      e.RoomID,
				PaidBy:      e.PaidBy,
				Description: e.Description,
				Amount:      share,
				SplitWith:   &debtor,
				Type:        expense.SplitTypeDirect,
				Status:      expense.StatusPending,
				CreatedAt:   e.CreatedAt, // keep original chronology
			})
		}

		ok, err := s.ledger.MaterializeGroupSettlement(ctx, e.ID, settlerID, share, derived)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrConflict
		}

		settler := settlerID
		e.Status = expense.StatusPaid
		e.Type = expense.SplitTypeDirect
		e.Amount = share
		e.SplitWith = &settler
		derivedCount = len(derived)
	} else {
		ok, err := s.ledger.MarkPaidIfPending(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrConflict
		}
		e.Status = expense.StatusPaid
	}

	if e.PaidBy != settlerID {
		settlerName := names[settlerID]
		if settlerName == "" {
			settlerName = settlerID
		}
		msg := fmt.Sprintf("%s settled their share of %q (%.2f)", settlerName, e.Description, e.Amount)
		if err := s.notifier.Notify(ctx, e.PaidBy, msg, "EXPENSE_SETTLED", e.ID); err != nil {
			return nil, err
		}
	}

	return &SettleResponse{
		Expense:      e.ToResponse(),
		DerivedCount: derivedCount,
	}, nil
}
