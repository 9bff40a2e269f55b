package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wrenfield/chorejar/internal/auth"
	"github.com/wrenfield/chorejar/internal/store"
)

type AuthHandler struct {
	parentStore *store.ParentStore
	childStore  *store.ChildStore
	jwtManager  *auth.JWTManager
	logger      *slog.Logger
}

func NewAuthHandler(ps *store.ParentStore, cs *store.ChildStore, jm *auth.JWTManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{parentStore: ps, childStore: cs, jwtManager: jm, logger: logger}
}

type loginRequest struct {
	Role string `json:"role"`
	ID   int64  `json:"id"`
	PIN  string `json:"pin"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
}

// Login verifies a profile's PIN and issues a token. Child profiles
// without a PIN log in with an empty one.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	switch req.Role {
	case auth.RoleParent:
		h.loginParent(w, req)
	case auth.RoleChild:
		h.loginChild(w, req)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be parent or child"})
	}
}

func (h *AuthHandler) loginParent(w http.ResponseWriter, req loginRequest) {
	parent, err := h.parentStore.GetByID(req.ID)
	if err != nil {
		h.logger.Error("login parent lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if parent == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	hash, err := h.parentStore.GetPINHash(req.ID)
	if err != nil {
		h.logger.Error("login parent pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if hash == "" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "PIN not set"})
		return
	}
	if err := auth.VerifyPIN(hash, req.PIN); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	h.issueToken(w, req.ID, auth.RoleParent)
}

func (h *AuthHandler) loginChild(w http.ResponseWriter, req loginRequest) {
	child, err := h.childStore.GetByID(req.ID)
	if err != nil {
		h.logger.Error("login child lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	if child.HasPIN {
		hash, err := h.childStore.GetPINHash(req.ID)
		if err != nil {
			h.logger.Error("login child pin", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
			return
		}
		if err := auth.VerifyPIN(hash, req.PIN); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
			return
		}
	}

	h.issueToken(w, req.ID, auth.RoleChild)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, id int64, role string) {
	token, err := h.jwtManager.Generate(id, role)
	if err != nil {
		h.logger.Error("generate token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: role, ID: id})
}

type parentPINRequest struct {
	PIN string `json:"pin"`
}

// SetParentPIN sets or replaces a parent's PIN.
func (h *AuthHandler) SetParentPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	parent, err := h.parentStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get parent"})
		return
	}
	if parent == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "parent not found"})
		return
	}

	var req parentPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be exactly 4 digits"})
		return
	}

	hash, err := auth.HashPIN(req.PIN)
	if err != nil {
		h.logger.Error("hash PIN", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}
	if err := h.parentStore.SetPIN(id, hash); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "set"})
}
