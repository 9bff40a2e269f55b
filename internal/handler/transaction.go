package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wrenfield/chorejar/internal/allowance"
	"github.com/wrenfield/chorejar/internal/auth"
	"github.com/wrenfield/chorejar/internal/model"
	"github.com/wrenfield/chorejar/internal/store"
	"github.com/wrenfield/chorejar/internal/websocket"
)

// TransactionHandler covers the money operations that don't go through the
// approval queue: bonuses, expenses, and the ledger view.
type TransactionHandler struct {
	childStore      *store.ChildStore
	choreStore      *store.ChoreStore
	completionStore *store.CompletionStore
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewTransactionHandler(cs *store.ChildStore, chores *store.ChoreStore, comps *store.CompletionStore, hub *websocket.Hub, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		childStore:      cs,
		choreStore:      chores,
		completionStore: comps,
		hub:             hub,
		logger:          logger,
	}
}

func (h *TransactionHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type bonusRequest struct {
	Jar    string  `json:"jar"`
	Amount float64 `json:"amount"`
	Label  string  `json:"label"`
}

// Bonus credits a single jar immediately, outside the weekly cap.
func (h *TransactionHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	child, err := h.childStore.GetByID(childID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	var req bonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	split, err := allowance.ToJar(allowance.Jar(req.Jar), req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "jar must be spending, savings, or giving"})
		return
	}

	parentID := auth.UserID(r.Context())
	completion, err := h.completionStore.CreateApproved(childID, model.KindBonus, strings.TrimSpace(req.Label), split, &parentID, time.Now())
	if err != nil {
		h.logger.Error("record bonus", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record bonus"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionCreated, completion.ID,
		map[string]any{"child_id": childID}))

	writeJSON(w, http.StatusCreated, completion)
}

type expenseRequest struct {
	Jar    string  `json:"jar"`
	Amount float64 `json:"amount"`
	Label  string  `json:"label"`
}

// Expense debits a single jar immediately. Jars never go negative.
func (h *TransactionHandler) Expense(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	child, err := h.childStore.GetByID(childID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	jar := allowance.Jar(req.Jar)
	if !allowance.ValidJar(jar) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "jar must be spending, savings, or giving"})
		return
	}

	split, err := allowance.ExpenseSplit(jar, req.Amount, jarBalance(child, jar))
	if errors.Is(err, allowance.ErrInsufficientFunds) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "insufficient funds",
			"jar":     req.Jar,
			"balance": jarBalance(child, jar),
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "jar must be spending, savings, or giving"})
		return
	}

	parentID := auth.UserID(r.Context())
	completion, err := h.completionStore.CreateApproved(childID, model.KindExpense, strings.TrimSpace(req.Label), split, &parentID, time.Now())
	if err != nil {
		h.logger.Error("record expense", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record expense"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionCreated, completion.ID,
		map[string]any{"child_id": childID}))

	writeJSON(w, http.StatusCreated, completion)
}

// Ledger returns the child's full transaction history, newest first, with a
// running total balance on every settled entry.
func (h *TransactionHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	child, err := h.childStore.GetByID(childID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	completions, err := h.completionStore.ListByChild(childID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list completions"})
		return
	}

	choreIDs := make([]int64, 0, len(completions))
	for _, c := range completions {
		if c.ChoreID != nil {
			choreIDs = append(choreIDs, *c.ChoreID)
		}
	}
	chores, err := h.choreStore.GetByIDs(choreIDs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve chores"})
		return
	}

	entries := allowance.BuildLedger(completions, chores, child.TotalBalance())
	if entries == nil {
		entries = []allowance.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"child":   child,
		"entries": entries,
	})
}

func jarBalance(c *model.Child, j allowance.Jar) float64 {
	switch j {
	case allowance.JarSpending:
		return c.SpendingBalance
	case allowance.JarSavings:
		return c.SavingsBalance
	case allowance.JarGiving:
		return c.GivingBalance
	}
	return 0
}
