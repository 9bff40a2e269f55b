package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wrenfield/chorejar/internal/allowance"
	"github.com/wrenfield/chorejar/internal/model"
	"github.com/wrenfield/chorejar/internal/push"
	"github.com/wrenfield/chorejar/internal/store"
	"github.com/wrenfield/chorejar/internal/websocket"
)

type ChoreHandler struct {
	choreStore      *store.ChoreStore
	childStore      *store.ChildStore
	completionStore *store.CompletionStore
	notifier        *push.Notifier
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, children *store.ChildStore, comps *store.CompletionStore, notifier *push.Notifier, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{
		choreStore:      cs,
		childStore:      children,
		completionStore: comps,
		notifier:        notifier,
		hub:             hub,
		logger:          logger,
	}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Active      *bool   `json:"active"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	chore, err := h.choreStore.Create(req.Name, req.Description, req.Amount)
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityChore, websocket.ActionCreated, chore.ID, nil))

	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		chores []model.Chore
		err    error
	)
	if r.URL.Query().Get("active") == "true" {
		chores, err = h.choreStore.ListActive()
	} else {
		chores, err = h.choreStore.List()
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list chores"})
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get chore"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	chore, err := h.choreStore.Update(id, req.Name, req.Description, req.Amount, active)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update chore"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityChore, websocket.ActionUpdated, id, nil))

	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get chore"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	if err := h.choreStore.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityChore, websocket.ActionDeleted, id, nil))

	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	ChildID int64 `json:"child_id"`
}

// Complete records a chore as done for a child, pending parent approval.
// Completions that would push the child past their weekly cap are refused.
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	choreID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	chore, err := h.choreStore.GetByID(choreID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get chore"})
		return
	}
	if chore == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}
	if !chore.Active {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "chore is retired"})
		return
	}

	child, err := h.childStore.GetByID(req.ChildID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	now := time.Now()
	earnings, err := h.completionStore.WeekEarnings(child.ID, allowance.StartOfWeek(now))
	if err != nil {
		h.logger.Error("week earnings", "child_id", child.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check weekly cap"})
		return
	}
	if allowance.WouldExceedCap(earnings, chore.Amount, child.WeeklyCap) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "weekly earning cap reached",
			"cap":       child.WeeklyCap,
			"earned":    earnings,
			"remaining": allowance.RemainingCap(earnings, child.WeeklyCap),
		})
		return
	}

	completion, err := h.completionStore.CreatePending(child.ID, chore.ID, allowance.Allocate(chore.Amount), now)
	if err != nil {
		h.logger.Error("create completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record completion"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionCreated, completion.ID,
		map[string]any{"child_id": child.ID}))
	if h.notifier != nil {
		h.notifier.NotifyApprovalNeeded(child.Name, chore.Name, chore.Amount)
	}

	writeJSON(w, http.StatusCreated, completion)
}
