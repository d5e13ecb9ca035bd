package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"atelier/models"

	"github.com/go-chi/chi/v5"
)

// CreateProposalHandler handles POST /api/designer-proposals. Only
// designers may bid; several proposals per request are allowed, also from
// the same designer.
func (h *Handler) CreateProposalHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}
	if account.Role != models.RoleDesigner {
		http.Error(w, "Only designers can submit proposals", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var proposal models.Proposal
	if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if err := validateProposal(&proposal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetRequest(r.Context(), proposal.RequestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get request", http.StatusInternalServerError)
		return
	}

	proposal.DesignerID = account.ID
	proposal.Status = models.ProposalPending

	if err := h.Store.CreateProposal(r.Context(), &proposal); err != nil {
		http.Error(w, "Failed to create proposal", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

func validateProposal(p *models.Proposal) error {
	if p.RequestID <= 0 {
		return errors.New("requestId must be positive")
	}
	if p.Price <= 0 {
		return errors.New("price must be positive")
	}
	if p.EstimatedTime == "" || len(p.EstimatedTime) > 100 {
		return errors.New("estimatedTime is required and max length 100")
	}
	if p.Message == "" || len(p.Message) > 2000 {
		return errors.New("message is required and max length 2000")
	}
	return nil
}

// GetProposalsHandler handles GET /api/designer-proposals with requestId
// and designerId filters.
func (h *Handler) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	var requestID, designerID int
	var err error

	if requestIDStr := r.URL.Query().Get("requestId"); requestIDStr != "" {
		if requestID, err = strconv.Atoi(requestIDStr); err != nil || requestID <= 0 {
			http.Error(w, "Invalid requestId", http.StatusBadRequest)
			return
		}
	}
	if designerIDStr := r.URL.Query().Get("designerId"); designerIDStr != "" {
		if designerID, err = strconv.Atoi(designerIDStr); err != nil || designerID <= 0 {
			http.Error(w, "Invalid designerId", http.StatusBadRequest)
			return
		}
	}

	proposals, err := h.Store.GetProposals(r.Context(), requestID, designerID, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get proposals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, proposals)
}

// GetMyProposalsHandler handles GET /api/designer-proposals/my.
func (h *Handler) GetMyProposalsHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}
	params := parsePaginationParams(r)

	proposals, err := h.Store.GetProposals(r.Context(), 0, account.ID, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get proposals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, proposals)
}

// UpdateProposalStatusHandler handles PUT /api/designer-proposals/{proposalId}/status.
// Accepting a proposal also moves the parent request to assigned and
// records the accepted proposal on it. Sibling proposals stay pending;
// they lose eligibility because the request is no longer open.
func (h *Handler) UpdateProposalStatusHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	proposalID, err := strconv.Atoi(chi.URLParam(r, "proposalId"))
	if err != nil || proposalID <= 0 {
		http.Error(w, "Invalid proposalId", http.StatusBadRequest)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if input.Status != models.ProposalAccepted && input.Status != models.ProposalRejected {
		http.Error(w, "Status must be accepted or rejected", http.StatusBadRequest)
		return
	}

	proposal, err := h.Store.GetProposal(r.Context(), proposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Proposal not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get proposal", http.StatusInternalServerError)
		return
	}

	request, err := h.Store.GetRequest(r.Context(), proposal.RequestID)
	if err != nil {
		http.Error(w, "Failed to get request", http.StatusInternalServerError)
		return
	}
	if request.CustomerID != account.ID {
		http.Error(w, "Only the request owner can decide proposals", http.StatusForbidden)
		return
	}
	if proposal.Status != models.ProposalPending {
		http.Error(w, "Proposal already decided", http.StatusConflict)
		return
	}

	if input.Status == models.ProposalAccepted {
		// At most one accepted proposal per request.
		if request.Status != models.RequestOpen {
			http.Error(w, "Request is no longer open", http.StatusConflict)
			return
		}

		if err := h.Store.UpdateProposalStatus(r.Context(), proposal.ID, models.ProposalAccepted); err != nil {
			http.Error(w, "Failed to update proposal", http.StatusInternalServerError)
			return
		}
		proposal.Status = models.ProposalAccepted

		// Second single-row update; a failure here leaves the known
		// inconsistency window, surfaced but not rolled back.
		if err := h.Store.AssignRequest(r.Context(), request.ID, proposal.ID, proposal.DesignerID, proposal.Price); err != nil {
			http.Error(w, "Proposal accepted but request update failed", http.StatusInternalServerError)
			return
		}
	} else {
		if err := h.Store.UpdateProposalStatus(r.Context(), proposal.ID, models.ProposalRejected); err != nil {
			http.Error(w, "Failed to update proposal", http.StatusInternalServerError)
			return
		}
		proposal.Status = models.ProposalRejected
	}

	writeJSON(w, http.StatusOK, proposal)
}
