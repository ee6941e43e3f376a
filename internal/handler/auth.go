package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	appI18n "github.com/unicampus/examgen/internal/i18n"
)

// AdminHashMeta is the metadata key holding the bcrypt hash of the admin
// password, seeded at startup.
const AdminHashMeta = "admin_hash"

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	hash, err := h.store.GetMeta(AdminHashMeta)
	if err != nil {
		slog.Error("load admin hash", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		http.Error(w, appI18n.T(r.Context(), "LoginError"), http.StatusUnauthorized)
		return
	}

	token, err := h.store.CreateAuthSession()
	if err != nil {
		slog.Error("create auth session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		_ = h.store.DeleteAuthSession(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth is middleware that checks for a valid bearer token.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authed(r) {
			http.Error(w, appI18n.T(r.Context(), "Unauthorized"), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) authed(r *http.Request) bool {
	token := bearerToken(r)
	if token == "" {
		return false
	}
	ok, err := h.store.ValidAuthSession(token)
	if err != nil {
		slog.Error("validate auth session", "error", err)
		return false
	}
	return ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}
