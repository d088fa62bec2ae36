package handlers

import (
	"net/http"
	"strconv"

	"github.com/polyglot-console/backend/internal/api/middleware"
	"github.com/polyglot-console/backend/internal/db"
)

// HistoryHandler serves a user's recorded translations.
type HistoryHandler struct {
	database *db.Database
}

func NewHistoryHandler(database *db.Database) *HistoryHandler {
	return &HistoryHandler{database: database}
}

// List returns the caller's most recent translations, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.database.ListHistory(claims.UserID, limit)
	if err != nil {
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, entries, http.StatusOK)
}

// Clear removes all of the caller's recorded translations.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.database.ClearHistory(claims.UserID); err != nil {
		jsonError(w, "failed to clear history", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
