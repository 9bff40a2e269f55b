package allowance

import (
	"sort"

	"github.com/wrenfield/chorejar/internal/model"
)

// Entry is one row of a child's transaction ledger: a completion annotated
// with a display title, a signed display amount, and the balance the child
// held immediately after it.
type Entry struct {
	Completion model.Completion `json:"completion"`
	Title      string           `json:"title"`
	// Amount is the face value shown for the row, signed: positive for
	// chore earnings and bonuses, negative for expenses and purchases.
	Amount  float64 `json:"amount"`
	Pending bool    `json:"pending"`
	// RunningBalance is meaningful only for approved entries; pending and
	// rejected rows carry the balance unchanged from the next-newer entry.
	RunningBalance float64 `json:"running_balance"`
}

// BuildLedger produces the most-recent-first ledger for a child. currentTotal
// is the child's present total balance across all jars; chores maps chore id
// to the chore record for title and face-value lookup.
//
// Running balances are reconstructed by walking backward from currentTotal,
// subtracting each newer approved completion's jar total. Pending entries are
// shown but never move the running balance.
func BuildLedger(completions []model.Completion, chores map[int64]model.Chore, currentTotal float64) []Entry {
	sorted := make([]model.Completion, len(completions))
	copy(sorted, completions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	entries := make([]Entry, 0, len(sorted))
	balance := currentTotal
	for _, c := range sorted {
		e := Entry{
			Completion:     c,
			Pending:        c.Status == model.StatusPending,
			RunningBalance: balance,
		}
		e.Title, e.Amount = classify(c, chores)
		entries = append(entries, e)
		if c.Status == model.StatusApproved {
			balance -= c.Total()
		}
	}
	return entries
}

// classify picks the display title and signed face-value amount for a
// completion. A chore earning shows the chore's reward value even while
// pending; if the chore row was deleted the persisted jar amounts still
// drive balance math, but the face value falls back to zero.
func classify(c model.Completion, chores map[int64]model.Chore) (string, float64) {
	switch c.Kind {
	case model.KindBonus:
		return "Bonus", c.Total()
	case model.KindExpense, model.KindPurchase:
		title := c.Label
		if title == "" {
			title = "Unknown"
		}
		total := c.Total()
		if total > 0 {
			total = -total
		}
		return title, total
	default:
		if c.ChoreID != nil {
			if chore, ok := chores[*c.ChoreID]; ok {
				return chore.Name, chore.Amount
			}
		}
		return "Unknown Chore", 0
	}
}
