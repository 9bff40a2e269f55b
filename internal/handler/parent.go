package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wrenfield/chorejar/internal/auth"
	"github.com/wrenfield/chorejar/internal/model"
	"github.com/wrenfield/chorejar/internal/store"
)

type ParentHandler struct {
	parentStore *store.ParentStore
	childStore  *store.ChildStore
	logger      *slog.Logger
}

func NewParentHandler(ps *store.ParentStore, cs *store.ChildStore, logger *slog.Logger) *ParentHandler {
	return &ParentHandler{parentStore: ps, childStore: cs, logger: logger}
}

type parentRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (h *ParentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req parentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleParent
	}

	parent, err := h.parentStore.Create(req.Name, req.Role)
	if err != nil {
		h.logger.Error("create parent", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create parent"})
		return
	}

	writeJSON(w, http.StatusCreated, parent)
}

func (h *ParentHandler) List(w http.ResponseWriter, r *http.Request) {
	parents, err := h.parentStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list parents"})
		return
	}
	if parents == nil {
		parents = []model.Parent{}
	}
	writeJSON(w, http.StatusOK, parents)
}

func (h *ParentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.parentStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get parent"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "parent not found"})
		return
	}

	if err := h.parentStore.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete parent"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type profile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	HasPIN      bool   `json:"has_pin"`
	AvatarColor string `json:"avatar_color,omitempty"`
}

// Profiles lists every login profile. Served without authentication so the
// login screen can render the name picker; no balances are exposed.
func (h *ParentHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	parents, err := h.parentStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list profiles"})
		return
	}
	children, err := h.childStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list profiles"})
		return
	}

	profiles := make([]profile, 0, len(parents)+len(children))
	for _, p := range parents {
		profiles = append(profiles, profile{ID: p.ID, Name: p.Name, Role: auth.RoleParent, HasPIN: true})
	}
	for _, c := range children {
		profiles = append(profiles, profile{
			ID:          c.ID,
			Name:        c.Name,
			Role:        auth.RoleChild,
			HasPIN:      c.HasPIN,
			AvatarColor: c.AvatarColor,
		})
	}
	writeJSON(w, http.StatusOK, profiles)
}
