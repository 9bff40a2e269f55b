package model

import "time"

// CompletionKind classifies a ledger transaction.
type CompletionKind string

const (
	KindChore    CompletionKind = "chore"
	KindBonus    CompletionKind = "bonus"
	KindExpense  CompletionKind = "expense"
	KindPurchase CompletionKind = "purchase"
)

// CompletionStatus is the approval lifecycle state. Approved and rejected
// are terminal.
type CompletionStatus string

const (
	StatusPending  CompletionStatus = "pending"
	StatusApproved CompletionStatus = "approved"
	StatusRejected CompletionStatus = "rejected"
)

// Completion records a chore being done, a bonus given, or money spent.
// The jar amounts are fixed when the row is created and never recomputed;
// a child's balances are the sum of jar amounts over approved completions.
type Completion struct {
	ID             int64            `json:"id"`
	UUID           string           `json:"uuid"`
	ChildID        int64            `json:"child_id"`
	ChoreID        *int64           `json:"chore_id"`
	Kind           CompletionKind   `json:"kind"`
	Label          string           `json:"label,omitempty"`
	Status         CompletionStatus `json:"status"`
	CompletedAt    time.Time        `json:"completed_at"`
	ApprovedAt     *time.Time       `json:"approved_at"`
	ApprovedBy     *int64           `json:"approved_by"`
	WeekStart      time.Time        `json:"week_start"`
	SpendingAmount float64          `json:"spending_amount"`
	SavingsAmount  float64          `json:"savings_amount"`
	GivingAmount   float64          `json:"giving_amount"`
}

// Total is the signed transaction total: positive for earnings and bonuses,
// negative for expenses and purchases.
func (c *Completion) Total() float64 {
	return c.SpendingAmount + c.SavingsAmount + c.GivingAmount
}
