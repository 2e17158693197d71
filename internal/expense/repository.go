package expense

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `id, room_id, paid_by, description, amount, split_with, split_type, status, created_at`

func scanExpense(row interface{ Scan(...any) error }) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.RoomID,
		&e.PaidBy,
		&e.Description,
		&e.Amount,
		&e.SplitWith,
		&e.Type,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Insert writes a single expense row
func (r *Repository) Insert(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (id, room_id, paid_by, description, amount, split_with, split_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + expenseColumns

	created, err := scanExpense(r.db.QueryRowContext(ctx, query,
		e.ID, e.RoomID, e.PaidBy, e.Description, e.Amount, e.SplitWith, e.Type, e.Status, e.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

// InsertBatch writes several expense rows in one transaction, so an eager
// direct split lands fully or not at all
func (r *Repository) InsertBatch(ctx context.Context, expenses []*Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBatchTx(ctx, tx, expenses); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expenses: %w", err)
	}
	return nil
}

func insertBatchTx(ctx context.Context, tx *sql.Tx, expenses []*Expense) error {
	query := `
		INSERT INTO expenses (id, room_id, paid_by, description, amount, split_with, split_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, e := range expenses {
		if _, err := tx.ExecContext(ctx, query,
			e.ID, e.RoomID, e.PaidBy, e.Description, e.Amount, e.SplitWith, e.Type, e.Status, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}
	}
	return nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	query := `
		SELECT e.id, e.room_id, e.paid_by, e.description, e.amount, e.split_with, e.split_type, e.status, e.created_at
		FROM expenses e
		WHERE e.id = $1
	`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListByRoom retrieves all expenses for a room, newest first, with payer
// and debtor names joined in
func (r *Repository) ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE room_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, roomID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.room_id, e.paid_by, e.description, e.amount, e.split_with, e.split_type, e.status, e.created_at,
		       COALESCE(p.username, ''), COALESCE(d.username, '')
		FROM expenses e
		LEFT JOIN members p ON e.paid_by = p.id
		LEFT JOIN members d ON e.split_with = d.id
		WHERE e.room_id = $1
		ORDER BY e.created_at DESC, e.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.RoomID,
			&e.PaidBy,
			&e.Description,
			&e.Amount,
			&e.SplitWith,
			&e.Type,
			&e.Status,
			&e.CreatedAt,
			&e.PayerName,
			&e.SplitWithName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, total, nil
}

// ListPendingByRoom retrieves every pending expense for a room in original
// chronological order. This is the snapshot the balance calculator reads.
func (r *Repository) ListPendingByRoom(ctx context.Context, roomID string) ([]*Expense, error) {
	query := `
		SELECT e.id, e.room_id, e.paid_by, e.description, e.amount, e.split_with, e.split_type, e.status, e.created_at
		FROM expenses e
		WHERE e.room_id = $1 AND e.status = 'pending'
		ORDER BY e.created_at, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}

// MarkPaidIfPending flips a pending expense to paid. The status guard makes
// the flip race-safe: a second concurrent settler sees false instead of
// re-flipping a finished row.
func (r *Repository) MarkPaidIfPending(ctx context.Context, id string) (bool, error) {
	query := `UPDATE expenses SET status = 'paid' WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark expense paid: %w", err)
	}

	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// MaterializeGroupSettlement converts a still-unsplit group expense into the
// settling member's paid direct share plus pending direct rows for everyone
// else, atomically.
//
// The update is guarded on the row still being a pending group split, so of
// two concurrent settlers exactly one wins; the loser gets false and nothing
// is written for them.
func (r *Repository) MaterializeGroupSettlement(ctx context.Context, expenseID, settlerID string, share float64, derived []*Expense) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE expenses
		SET status = 'paid', split_type = 'direct', amount = $2, split_with = $3
		WHERE id = $1 AND status = 'pending' AND split_with IS NULL
	`

	result, err := tx.ExecContext(ctx, update, expenseID, share, settlerID)
	if err != nil {
		return false, fmt.Errorf("failed to settle group expense: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return false, nil
	}

	if err := insertBatchTx(ctx, tx, derived); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return true, nil
}
