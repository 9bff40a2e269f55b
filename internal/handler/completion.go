package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wrenfield/chorejar/internal/auth"
	"github.com/wrenfield/chorejar/internal/model"
	"github.com/wrenfield/chorejar/internal/store"
	"github.com/wrenfield/chorejar/internal/websocket"
)

type CompletionHandler struct {
	completionStore *store.CompletionStore
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewCompletionHandler(cs *store.CompletionStore, hub *websocket.Hub, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{completionStore: cs, hub: hub, logger: logger}
}

func (h *CompletionHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// ListPending returns every completion waiting for review, newest first.
func (h *CompletionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	completions, err := h.completionStore.ListPending()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list pending completions"})
		return
	}
	if completions == nil {
		completions = []model.Completion{}
	}
	writeJSON(w, http.StatusOK, completions)
}

// Approve credits the completion's jar amounts to the child. Only pending
// completions can be approved; a second attempt is a conflict.
func (h *CompletionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	parentID := auth.UserID(r.Context())
	completion, err := h.completionStore.Approve(id, parentID, time.Now())
	if errors.Is(err, store.ErrNotPending) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "completion is not pending"})
		return
	}
	if err != nil {
		h.logger.Error("approve completion", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to approve completion"})
		return
	}
	if completion == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "completion not found"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionApproved, id,
		map[string]any{"child_id": completion.ChildID}))

	writeJSON(w, http.StatusOK, completion)
}

// Reject marks the completion rejected without touching balances.
func (h *CompletionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	completion, err := h.completionStore.Reject(id)
	if errors.Is(err, store.ErrNotPending) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "completion is not pending"})
		return
	}
	if err != nil {
		h.logger.Error("reject completion", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reject completion"})
		return
	}
	if completion == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "completion not found"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionRejected, id,
		map[string]any{"child_id": completion.ChildID}))

	writeJSON(w, http.StatusOK, completion)
}
