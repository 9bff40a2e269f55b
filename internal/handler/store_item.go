package handler

import (
	"encoding/json"
	"errors"
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

type StoreItemHandler struct {
	itemStore       *store.StoreItemStore
	childStore      *store.ChildStore
	completionStore *store.CompletionStore
	notifier        *push.Notifier
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewStoreItemHandler(is *store.StoreItemStore, cs *store.ChildStore, comps *store.CompletionStore, notifier *push.Notifier, hub *websocket.Hub, logger *slog.Logger) *StoreItemHandler {
	return &StoreItemHandler{
		itemStore:       is,
		childStore:      cs,
		completionStore: comps,
		notifier:        notifier,
		hub:             hub,
		logger:          logger,
	}
}

func (h *StoreItemHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type storeItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Icon        string  `json:"icon"`
	Available   *bool   `json:"available"`
}

func (h *StoreItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req storeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be positive"})
		return
	}

	item, err := h.itemStore.Create(req.Name, req.Description, req.Price, req.Icon)
	if err != nil {
		h.logger.Error("create store item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityStoreItem, websocket.ActionCreated, item.ID, nil))

	writeJSON(w, http.StatusCreated, item)
}

func (h *StoreItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.StoreItem
		err   error
	)
	if r.URL.Query().Get("available") == "true" {
		items, err = h.itemStore.ListAvailable()
	} else {
		items, err = h.itemStore.List()
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}
	if items == nil {
		items = []model.StoreItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StoreItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.itemStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var req storeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be positive"})
		return
	}

	available := existing.Available
	if req.Available != nil {
		available = *req.Available
	}

	item, err := h.itemStore.Update(id, req.Name, req.Description, req.Price, req.Icon, available)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityStoreItem, websocket.ActionUpdated, id, nil))

	writeJSON(w, http.StatusOK, item)
}

func (h *StoreItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.itemStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.itemStore.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityStoreItem, websocket.ActionDeleted, id, nil))

	w.WriteHeader(http.StatusNoContent)
}

type purchaseRequest struct {
	ChildID int64  `json:"child_id"`
	Method  string `json:"method"`
}

// Purchase redeems a store item, paying from spending, savings, or both.
// The debit applies immediately; no approval step.
func (h *StoreItemHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	item, err := h.itemStore.GetByID(itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	if !item.Available {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "item is not available"})
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

	split, err := allowance.SplitPurchase(allowance.PaymentMethod(req.Method), item.Price, child.SpendingBalance, child.SavingsBalance)
	if errors.Is(err, allowance.ErrInsufficientFunds) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "insufficient funds",
			"price":   item.Price,
			"methods": allowance.PaymentOptions(item.Price, child.SpendingBalance, child.SavingsBalance),
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "method must be spending, savings, or both"})
		return
	}

	completion, err := h.completionStore.CreateApproved(child.ID, model.KindPurchase, item.Name, split, nil, time.Now())
	if err != nil {
		h.logger.Error("record purchase", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record purchase"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityCompletion, websocket.ActionCreated, completion.ID,
		map[string]any{"child_id": child.ID}))
	if h.notifier != nil {
		h.notifier.NotifyPurchase(child.Name, item.Name, item.Price)
	}

	writeJSON(w, http.StatusCreated, completion)
}
