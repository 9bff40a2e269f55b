package allowance

import (
	"math"
	"testing"
	"time"

	"github.com/wrenfield/chorejar/internal/model"
)

func choreCompletion(id, choreID int64, status model.CompletionStatus, at time.Time, split JarSplit) model.Completion {
	return model.Completion{
		ID:             id,
		ChildID:        1,
		ChoreID:        &choreID,
		Kind:           model.KindChore,
		Status:         status,
		CompletedAt:    at,
		WeekStart:      StartOfWeek(at),
		SpendingAmount: split.Spending,
		SavingsAmount:  split.Savings,
		GivingAmount:   split.Giving,
	}
}

func TestBuildLedgerRunningBalance(t *testing.T) {
	base := time.Date(2025, 10, 6, 10, 0, 0, 0, time.UTC)
	chores := map[int64]model.Chore{
		1: {ID: 1, Name: "Wash Dishes", Amount: 5.00},
		2: {ID: 2, Name: "Rake Leaves", Amount: 3.00},
	}
	completions := []model.Completion{
		choreCompletion(1, 1, model.StatusApproved, base, Allocate(5.00)),
		choreCompletion(2, 2, model.StatusApproved, base.Add(time.Hour), Allocate(3.00)),
		{
			ID: 3, ChildID: 1, Kind: model.KindExpense, Label: "Candy",
			Status: model.StatusApproved, CompletedAt: base.Add(2 * time.Hour),
			SpendingAmount: -2.00,
		},
	}
	// Balances after approval: 5 + 3 - 2 = 6.
	entries := BuildLedger(completions, chores, 6.00)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Most recent first: expense, rake leaves, wash dishes.
	if entries[0].Title != "Candy" || entries[1].Title != "Rake Leaves" || entries[2].Title != "Wash Dishes" {
		t.Fatalf("unexpected order: %q, %q, %q", entries[0].Title, entries[1].Title, entries[2].Title)
	}

	wantBalances := []float64{6.00, 8.00, 5.00}
	for i, want := range wantBalances {
		if math.Abs(entries[i].RunningBalance-want) > epsilon {
			t.Errorf("entries[%d].RunningBalance = %v, want %v", i, entries[i].RunningBalance, want)
		}
	}

	// The newest approved entry's running balance plus nothing equals the
	// current total; one step back it differs by that entry's jar total.
	if math.Abs(entries[0].RunningBalance-6.00) > epsilon {
		t.Errorf("newest running balance = %v, want current total 6.00", entries[0].RunningBalance)
	}
}

func TestBuildLedgerPendingExcludedFromBalanceMath(t *testing.T) {
	base := time.Date(2025, 10, 6, 10, 0, 0, 0, time.UTC)
	chores := map[int64]model.Chore{1: {ID: 1, Name: "Wash Dishes", Amount: 5.00}}
	completions := []model.Completion{
		choreCompletion(1, 1, model.StatusApproved, base, Allocate(5.00)),
		choreCompletion(2, 1, model.StatusPending, base.Add(time.Hour), Allocate(5.00)),
	}
	entries := BuildLedger(completions, chores, 5.00)

	if !entries[0].Pending {
		t.Fatal("newest entry should be pending")
	}
	if entries[0].Amount != 5.00 {
		t.Errorf("pending face value = %v, want 5.00", entries[0].Amount)
	}
	// Pending entry must not move the running balance for older rows.
	if math.Abs(entries[1].RunningBalance-5.00) > epsilon {
		t.Errorf("approved entry running balance = %v, want 5.00", entries[1].RunningBalance)
	}
}

func TestBuildLedgerClassification(t *testing.T) {
	now := time.Date(2025, 10, 6, 10, 0, 0, 0, time.UTC)
	missingChore := int64(99)
	completions := []model.Completion{
		{ID: 1, Kind: model.KindBonus, Status: model.StatusApproved, CompletedAt: now, SavingsAmount: 3.00},
		{ID: 2, Kind: model.KindPurchase, Label: "Lego Set", Status: model.StatusApproved,
			CompletedAt: now.Add(-time.Hour), SpendingAmount: -8.00, SavingsAmount: -2.00},
		{ID: 3, Kind: model.KindChore, ChoreID: &missingChore, Status: model.StatusApproved,
			CompletedAt: now.Add(-2 * time.Hour), SpendingAmount: 4.00, SavingsAmount: 0.50, GivingAmount: 0.50},
	}
	entries := BuildLedger(completions, map[int64]model.Chore{}, 0)

	if entries[0].Title != "Bonus" || entries[0].Amount != 3.00 {
		t.Errorf("bonus entry = %q %v, want Bonus 3.00", entries[0].Title, entries[0].Amount)
	}
	if entries[1].Title != "Lego Set" || entries[1].Amount != -10.00 {
		t.Errorf("purchase entry = %q %v, want Lego Set -10.00", entries[1].Title, entries[1].Amount)
	}
	// Deleted chore: placeholder title, zero face value, but the stored jar
	// amounts still drive the running balance.
	if entries[2].Title != "Unknown Chore" || entries[2].Amount != 0 {
		t.Errorf("orphan entry = %q %v, want Unknown Chore 0", entries[2].Title, entries[2].Amount)
	}
	if math.Abs(entries[2].RunningBalance-7.00) > epsilon {
		t.Errorf("orphan running balance = %v, want 7.00", entries[2].RunningBalance)
	}
}
