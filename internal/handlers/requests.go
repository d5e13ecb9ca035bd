package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"atelier/db"
	"atelier/models"

	"github.com/go-chi/chi/v5"
)

// CreateRequestHandler handles POST /api/customization-requests. Only
// customers may post requests; status is always open on creation.
func (h *Handler) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}
	if account.Role != models.RoleCustomer {
		http.Error(w, "Only customers can create requests", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var request models.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if err := validateRequest(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	request.CustomerID = account.ID
	request.Status = models.RequestOpen
	request.AcceptedProposalID = nil
	request.AcceptedPrice = nil
	request.DesignerID = nil

	if err := h.Store.CreateRequest(r.Context(), &request); err != nil {
		http.Error(w, "Failed to create request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func validateRequest(r *models.Request) error {
	if r.Title == "" || len(r.Title) > 100 {
		return errors.New("title is required and max length 100")
	}
	if r.Description == "" || len(r.Description) > 2000 {
		return errors.New("description is required and max length 2000")
	}
	if r.Material == "" || len(r.Material) > 100 {
		return errors.New("material is required and max length 100")
	}
	if r.Budget != nil && *r.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	return nil
}

// GetRequestsHandler handles GET /api/customization-requests, the
// marketplace listing with status/material/budget filters.
func (h *Handler) GetRequestsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	var filter db.RequestFilter

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.RequestOpen, models.RequestAssigned, models.RequestCompleted:
		filter.Status = status
	default:
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	filter.Material = r.URL.Query().Get("material")

	if customerIDStr := r.URL.Query().Get("customerId"); customerIDStr != "" {
		customerID, err := strconv.Atoi(customerIDStr)
		if err != nil || customerID <= 0 {
			http.Error(w, "Invalid customerId", http.StatusBadRequest)
			return
		}
		filter.CustomerID = customerID
	}

	if minStr := r.URL.Query().Get("minBudget"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			http.Error(w, "Invalid minBudget", http.StatusBadRequest)
			return
		}
		filter.MinBudget = &min
	}
	if maxStr := r.URL.Query().Get("maxBudget"); maxStr != "" {
		max, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			http.Error(w, "Invalid maxBudget", http.StatusBadRequest)
			return
		}
		filter.MaxBudget = &max
	}

	requests, err := h.Store.GetRequests(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// GetMyRequestsHandler handles GET /api/customization-requests/my.
func (h *Handler) GetMyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}
	params := parsePaginationParams(r)

	requests, err := h.Store.GetCustomerRequests(r.Context(), account.ID, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// GetRequestHandler handles GET /api/customization-requests/{requestId}.
func (h *Handler) GetRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(chi.URLParam(r, "requestId"))
	if err != nil || requestID <= 0 {
		http.Error(w, "Invalid requestId", http.StatusBadRequest)
		return
	}

	request, err := h.Store.GetRequest(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, request)
}
