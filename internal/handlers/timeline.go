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

// AppendTimelineEventHandler handles POST /api/customization-requests/{requestId}/timeline.
// Only the assigned designer may post. A delivered event also moves the
// request to completed; re-delivering is a no-op beyond the extra event.
func (h *Handler) AppendTimelineEventHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

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
	if request.DesignerID == nil || *request.DesignerID != account.ID {
		http.Error(w, "Only the assigned designer can post updates", http.StatusForbidden)
		return
	}

	var event models.TimelineEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	// Status is an open string set; unknown stages are stored as-is.
	if event.Status == "" || len(event.Status) > 50 {
		http.Error(w, "status is required and max length 50", http.StatusBadRequest)
		return
	}
	if event.Message == "" || len(event.Message) > 2000 {
		http.Error(w, "message is required and max length 2000", http.StatusBadRequest)
		return
	}
	if event.PaymentAmount != nil && *event.PaymentAmount <= 0 {
		http.Error(w, "paymentAmount must be positive", http.StatusBadRequest)
		return
	}

	event.RequestID = requestID
	if err := h.Store.CreateTimelineEvent(r.Context(), &event); err != nil {
		http.Error(w, "Failed to create timeline event", http.StatusInternalServerError)
		return
	}

	if event.Status == models.TimelineDelivered {
		if err := h.Store.CompleteRequest(r.Context(), requestID); err != nil {
			http.Error(w, "Event recorded but request update failed", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, event)
}

// ListTimelineEventsHandler handles GET /api/customization-requests/{requestId}/timeline.
// Events come back sorted by timestamp ascending regardless of insertion
// order.
func (h *Handler) ListTimelineEventsHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(chi.URLParam(r, "requestId"))
	if err != nil || requestID <= 0 {
		http.Error(w, "Invalid requestId", http.StatusBadRequest)
		return
	}

	events, err := h.Store.GetTimelineEvents(r.Context(), requestID)
	if err != nil {
		http.Error(w, "Failed to get timeline events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
