package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"atelier/models"

	"github.com/go-chi/chi/v5"
)

// GetUsersHandler handles GET /api/users with an optional role filter.
func (h *Handler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	role := r.URL.Query().Get("role")
	if role != "" && role != models.RoleCustomer && role != models.RoleDesigner {
		http.Error(w, "Invalid role filter", http.StatusBadRequest)
		return
	}

	accounts, err := h.Store.GetAccounts(r.Context(), role, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// GetUserHandler handles GET /api/users/{userId}.
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil || userID <= 0 {
		http.Error(w, "Invalid userId", http.StatusBadRequest)
		return
	}

	account, err := h.Store.GetAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
