package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"atelier/internal/auth"
	"atelier/models"
)

// Handler wraps the storage layer and the token issuer.
type Handler struct {
	Store  StorageInterface
	Tokens *auth.Tokens
}

func NewHandler(store StorageInterface, tokens *auth.Tokens) *Handler {
	return &Handler{Store: store, Tokens: tokens}
}

func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams reads limit and offset from the query, with
// defaults and an upper bound on limit.
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 20, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

// currentAccount loads the authenticated caller's account. On failure it
// writes a 401 and returns false.
func (h *Handler) currentAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	id, err := auth.AccountID(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return nil, false
	}

	account, err := h.Store.GetAccount(r.Context(), id)
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return nil, false
	}
	return account, true
}
