package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wrenfield/chorejar/internal/allowance"
	"github.com/wrenfield/chorejar/internal/model"
)

// ErrNotPending is returned when approving or rejecting a completion that
// has already been ruled on. Approve and reject are guarded in SQL so two
// racing callers cannot both apply the transition.
var ErrNotPending = errors.New("completion is not pending")

type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

const completionCols = `id, uuid, child_id, chore_id, kind, label, status, completed_at, approved_at, approved_by, week_start, spending_amount, savings_amount, giving_amount`

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	var choreID, approvedBy sql.NullInt64
	var approvedAt sql.NullTime

	err := scanner.Scan(&c.ID, &c.UUID, &c.ChildID, &choreID, &c.Kind, &c.Label,
		&c.Status, &c.CompletedAt, &approvedAt, &approvedBy, &c.WeekStart,
		&c.SpendingAmount, &c.SavingsAmount, &c.GivingAmount)
	if err != nil {
		return nil, err
	}

	if choreID.Valid {
		c.ChoreID = &choreID.Int64
	}
	if approvedAt.Valid {
		c.ApprovedAt = &approvedAt.Time
	}
	if approvedBy.Valid {
		c.ApprovedBy = &approvedBy.Int64
	}
	return &c, nil
}

// CreatePending records a child-initiated chore completion. The jar split
// and week start are fixed here and never recomputed; balances remain
// untouched until a parent approves.
func (s *CompletionStore) CreatePending(childID, choreID int64, split allowance.JarSplit, now time.Time) (*model.Completion, error) {
	result, err := s.db.Exec(
		`INSERT INTO completions (uuid, child_id, chore_id, kind, status, completed_at, week_start, spending_amount, savings_amount, giving_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), childID, choreID, model.KindChore, model.StatusPending,
		now, allowance.StartOfWeek(now), split.Spending, split.Savings, split.Giving,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// CreateApproved records a parent-initiated transaction (bonus, expense, or
// purchase) that applies synchronously: the completion row is inserted
// already approved and the child's balances move in the same transaction.
func (s *CompletionStore) CreateApproved(childID int64, kind model.CompletionKind, label string, split allowance.JarSplit, parentID *int64, now time.Time) (*model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var approvedBy sql.NullInt64
	if parentID != nil {
		approvedBy = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	result, err := tx.Exec(
		`INSERT INTO completions (uuid, child_id, kind, label, status, completed_at, approved_at, approved_by, week_start, spending_amount, savings_amount, giving_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), childID, kind, label, model.StatusApproved,
		now, now, approvedBy, allowance.StartOfWeek(now),
		split.Spending, split.Savings, split.Giving,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := creditBalances(tx, childID, split); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

// Approve transitions a pending completion to approved and credits the
// child's jars with the completion's stored amounts, atomically. Returns
// ErrNotPending if the completion was already approved or rejected, and
// (nil, nil) if it does not exist.
func (s *CompletionStore) Approve(id, parentID int64, now time.Time) (*model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE completions SET status = ?, approved_at = ?, approved_by = ? WHERE id = ? AND status = ?`,
		model.StatusApproved, now, parentID, id, model.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("approve completion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, s.notPendingErr(tx, id)
	}

	var childID int64
	var split allowance.JarSplit
	err = tx.QueryRow(
		`SELECT child_id, spending_amount, savings_amount, giving_amount FROM completions WHERE id = ?`, id,
	).Scan(&childID, &split.Spending, &split.Savings, &split.Giving)
	if err != nil {
		return nil, fmt.Errorf("read completion amounts: %w", err)
	}

	if err := creditBalances(tx, childID, split); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

// Reject transitions a pending completion to rejected. Only the status
// changes; the child's balances are never touched.
func (s *CompletionStore) Reject(id int64) (*model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE completions SET status = ? WHERE id = ? AND status = ?`,
		model.StatusRejected, id, model.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("reject completion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, s.notPendingErr(tx, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

// notPendingErr distinguishes a missing completion from one in a terminal
// state after a zero-row CAS update.
func (s *CompletionStore) notPendingErr(tx *sql.Tx, id int64) error {
	var status string
	err := tx.QueryRow(`SELECT status FROM completions WHERE id = ?`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check completion status: %w", err)
	}
	return ErrNotPending
}

func creditBalances(tx *sql.Tx, childID int64, split allowance.JarSplit) error {
	_, err := tx.Exec(
		`UPDATE children SET
			spending_balance = spending_balance + ?,
			savings_balance = savings_balance + ?,
			giving_balance = giving_balance + ?
		 WHERE id = ?`,
		split.Spending, split.Savings, split.Giving, childID,
	)
	if err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	return nil
}

func (s *CompletionStore) GetByID(id int64) (*model.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

// ListByChild returns all of a child's completions, most recent first.
func (s *CompletionStore) ListByChild(childID int64) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions WHERE child_id = ? ORDER BY completed_at DESC, id DESC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by child: %w", err)
	}
	return collectCompletions(rows)
}

// ListPending returns all completions awaiting parent review, most recent
// first.
func (s *CompletionStore) ListPending() ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions WHERE status = ? ORDER BY completed_at DESC, id DESC`,
		model.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending completions: %w", err)
	}
	return collectCompletions(rows)
}

func collectCompletions(rows *sql.Rows) ([]model.Completion, error) {
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// WeekEarnings sums a child's chore earnings for the given week. Pending and
// approved completions both count, since a pending claim reserves cap
// capacity. Rejected ones and bonuses never do.
func (s *CompletionStore) WeekEarnings(childID int64, weekStart time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(spending_amount + savings_amount + giving_amount), 0)
		 FROM completions
		 WHERE child_id = ? AND kind = ? AND status IN (?, ?) AND week_start = ?`,
		childID, model.KindChore, model.StatusPending, model.StatusApproved, weekStart,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum week earnings: %w", err)
	}
	return total.Float64, nil
}

// ResetStats zeroes all three jar balances and deletes the child's entire
// transaction history in one transaction.
func (s *CompletionStore) ResetStats(childID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE children SET spending_balance = 0, savings_balance = 0, giving_balance = 0 WHERE id = ?`,
		childID,
	)
	if err != nil {
		return fmt.Errorf("zero balances: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM completions WHERE child_id = ?`, childID); err != nil {
		return fmt.Errorf("delete completions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
