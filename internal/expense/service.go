package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aykose/dormsync/internal/expense/balance"
	"github.com/aykose/dormsync/internal/room"
)

// Common errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrEmptyDescription = errors.New("description is required")
	ErrSelfSplit        = errors.New("cannot record a debt to yourself")
	ErrNotRoomMember    = errors.New("member is not in this room")
)

// AdmissionError is returned when a proposed expense would push another
// member past the room debt ceiling. No writes happen when it is returned.
type AdmissionError struct {
	MemberID  string
	Username  string
	Projected float64
	Limit     float64
}

func (e *AdmissionError) Error() string {
	name := e.Username
	if name == "" {
		name = e.MemberID
	}
	return fmt.Sprintf("%s would owe %.2f, past the %.0f debt limit", name, -e.Projected, e.Limit)
}

// Store is the ledger persistence surface the service needs
type Store interface {
	Insert(ctx context.Context, e *Expense) (*Expense, error)
	InsertBatch(ctx context.Context, expenses []*Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]*Expense, int, error)
	ListPendingByRoom(ctx context.Context, roomID string) ([]*Expense, error)
}

// MemberLister supplies the current roster of a room
type MemberLister interface {
	GetMembers(ctx context.Context, roomID string) ([]*room.Member, error)
}

// Notifier delivers in-app notifications; failures are surfaced, not retried
type Notifier interface {
	Notify(ctx context.Context, recipientID, message, kind, entityID string) error
}

// Service handles expense business logic
type Service struct {
	store     Store
	rooms     MemberLister
	notifier  Notifier
	debtLimit float64
}

// NewService creates a new expense service with dependencies injected
func NewService(store Store, rooms MemberLister, notifier Notifier, debtLimit float64) *Service {
	return &Service{
		store:     store,
		rooms:     rooms,
		notifier:  notifier,
		debtLimit: debtLimit,
	}
}

// roster fetches the current members of a room keyed for quick lookup
func (s *Service) roster(ctx context.Context, roomID string) ([]*room.Member, map[string]*room.Member, error) {
	members, err := s.rooms.GetMembers(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*room.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return members, byID, nil
}

func rosterIDs(members []*room.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// ComputeBalances derives each current member's signed net position from
// the room's pending ledger. Positive means owed money, negative means owes.
func (s *Service) ComputeBalances(ctx context.Context, roomID string) (*balance.Sheet, error) {
	members, _, err := s.roster(ctx, roomID)
	if err != nil {
		return nil, err
	}

	pending, err := s.store.ListPendingByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	entries := make([]balance.Entry, len(pending))
	for i, e := range pending {
		entries[i] = e.BalanceEntry()
	}

	return balance.Compute(entries, rosterIDs(members)), nil
}

// ProjectAdmission checks whether a proposed expense would push any affected
// member other than the creator below the debt ceiling. shares maps each
// affected member to what the proposal would add to their debt.
func (s *Service) projectAdmission(sheet *balance.Sheet, byID map[string]*room.Member, creatorID string, shares map[string]float64) error {
	for _, id := range sheet.Members() {
		share, affected := shares[id]
		if !affected || id == creatorID {
			continue
		}
		current, _ := sheet.Amount(id)
		wouldOwe := current - share
		if wouldOwe < -s.debtLimit {
			admErr := &AdmissionError{
				MemberID:  id,
				Projected: wouldOwe,
				Limit:     s.debtLimit,
			}
			if m, ok := byID[id]; ok {
				admErr.Username = m.Username
			}
			return admErr
		}
	}
	return nil
}

// ProjectAdmission exposes the debt-ceiling check without writing anything:
// it reports whether a group expense of the given amount paid by creatorID
// would be admitted.
func (s *Service) ProjectAdmission(ctx context.Context, roomID, creatorID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	members, byID, err := s.roster(ctx, roomID)
	if err != nil {
		return err
	}

	sheet, err := s.ComputeBalances(ctx, roomID)
	if err != nil {
		return err
	}

	return s.projectAdmission(sheet, byID, creatorID, groupShares(members, amount))
}

func groupShares(members []*room.Member, amount float64) map[string]float64 {
	shares := make(map[string]float64, len(members))
	if len(members) == 0 {
		return shares
	}
	per := amount / float64(len(members))
	for _, m := range members {
		shares[m.ID] = per
	}
	return shares
}

// CreateGroup writes a single lazily-split expense row. The divisor is not
// stored: every later read splits by whatever the roster is at that moment.
func (s *Service) CreateGroup(ctx context.Context, roomID, payerID, description string, amount float64) (*Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}

	members, byID, err := s.roster(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, ok := byID[payerID]; !ok {
		return nil, ErrNotRoomMember
	}

	sheet, err := s.ComputeBalances(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.projectAdmission(sheet, byID, payerID, groupShares(members, amount)); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, &Expense{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		PaidBy:      payerID,
		Description: description,
		Amount:      amount,
		Type:        SplitTypeGroup,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	payerName := memberName(byID, payerID)
	for _, m := range members {
		if m.ID == payerID {
			continue
		}
		msg := fmt.Sprintf("%s added %q (%.2f, split with the room)", payerName, description, amount)
		if err := s.notifier.Notify(ctx, m.ID, msg, "EXPENSE_ADDED", created.ID); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// CreateDirectSplit divides an amount equally among the given debtors and
// writes one frozen direct row per debtor. Later roster changes do not touch
// these rows. With no debtors (a solo room) a single self-referential
// placeholder row is written so the expense still shows up in history.
func (s *Service) CreateDirectSplit(ctx context.Context, roomID, payerID, description string, amount float64, debtorIDs []string) ([]*Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}

	_, byID, err := s.roster(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, ok := byID[payerID]; !ok {
		return nil, ErrNotRoomMember
	}

	now := time.Now().UTC()

	if len(debtorIDs) == 0 {
		payer := payerID
		self, err := s.store.Insert(ctx, &Expense{
			ID:          uuid.NewString(),
			RoomID:      roomID,
			PaidBy:      payerID,
			Description: description,
			Amount:      amount,
			SplitWith:   &payer,
			Type:        SplitTypeDirect,
			Status:      StatusPending,
			CreatedAt:   now,
		})
		if err != nil {
			return nil, err
		}
		return []*Expense{self}, nil
	}

	seen := make(map[string]bool, len(debtorIDs))
	for _, id := range debtorIDs {
		if id == payerID {
			return nil, ErrSelfSplit
		}
		if _, ok := byID[id]; !ok {
			return nil, ErrNotRoomMember
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate debtor %s", id)
		}
		seen[id] = true
	}

	share := amount / float64(len(debtorIDs))

	sheet, err := s.ComputeBalances(ctx, roomID)
	if err != nil {
		return nil, err
	}
	shares := make(map[string]float64, len(debtorIDs))
	for _, id := range debtorIDs {
		shares[id] = share
	}
	if err := s.projectAdmission(sheet, byID, payerID, shares); err != nil {
		return nil, err
	}

	expenses := make([]*Expense, len(debtorIDs))
	for i, debtorID := range debtorIDs {
		debtor := debtorID
		expenses[i] = &Expense{
			ID:          uuid.NewString(),
			RoomID:      roomID,
			PaidBy:      payerID,
			Description: description,
			Amount:      share,
			SplitWith:   &debtor,
			Type:        SplitTypeDirect,
			Status:      StatusPending,
			CreatedAt:   now,
		}
	}

	if err := s.store.InsertBatch(ctx, expenses); err != nil {
		return nil, err
	}

	payerName := memberName(byID, payerID)
	for _, e := range expenses {
		msg := fmt.Sprintf("%s added %q (you owe %.2f)", payerName, description, e.Amount)
		if err := s.notifier.Notify(ctx, *e.SplitWith, msg, "EXPENSE_ADDED", e.ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// ListByRoom retrieves the full ledger history for a room, newest first
func (s *Service) ListByRoom(ctx context.Context, roomID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByRoom(ctx, roomID, perPage, offset)
}

// ListDebts builds one member's view of the pending ledger: what they owe,
// what they are owed, and their net balance. Group rows show the share that
// would change hands given the current roster.
func (s *Service) ListDebts(ctx context.Context, roomID, memberID string) (*DebtView, error) {
	members, _, err := s.roster(ctx, roomID)
	if err != nil {
		return nil, err
	}
	n := len(members)

	pending, err := s.store.ListPendingByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	view := &DebtView{MemberID: memberID, IOwe: []*DebtItem{}, OwedToMe: []*DebtItem{}}

	entries := make([]balance.Entry, len(pending))
	for i, e := range pending {
		entries[i] = e.BalanceEntry()
	}
	sheet := balance.Compute(entries, rosterIDs(members))
	view.Balance, _ = sheet.Amount(memberID)

	for _, e := range pending {
		if e.PaidBy == memberID {
			view.OwedToMe = append(view.OwedToMe, &DebtItem{
				Expense: e.ToResponse(),
				Share:   e.OwedToPayer(n),
			})
			continue
		}
		owes := !e.IsDirect() || *e.SplitWith == memberID
		if owes {
			view.IOwe = append(view.IOwe, &DebtItem{
				Expense: e.ToResponse(),
				Share:   e.ShareOwed(n),
			})
		}
	}

	return view, nil
}

func memberName(byID map[string]*room.Member, id string) string {
	if m, ok := byID[id]; ok {
		return m.Username
	}
	return id
}
