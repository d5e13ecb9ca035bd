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

// SendMessageHandler handles POST /api/chat. The sender is always the
// authenticated caller; messages start unread.
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var message models.Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if message.Content == "" || len(message.Content) > 2000 {
		http.Error(w, "content is required and max length 2000", http.StatusBadRequest)
		return
	}
	if message.ReceiverID <= 0 || message.ReceiverID == account.ID {
		http.Error(w, "Invalid receiverId", http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetAccount(r.Context(), message.ReceiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Receiver not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get receiver", http.StatusInternalServerError)
		return
	}

	message.SenderID = account.ID
	message.Read = false

	if err := h.Store.CreateMessage(r.Context(), &message); err != nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

// GetMessagesHandler handles GET /api/chat?senderId=&receiverId=. The
// pair is unordered; either side can be passed first. A missing senderId
// defaults to the caller.
func (h *Handler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	senderID := account.ID
	if senderIDStr := r.URL.Query().Get("senderId"); senderIDStr != "" {
		id, err := strconv.Atoi(senderIDStr)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid senderId", http.StatusBadRequest)
			return
		}
		senderID = id
	}

	receiverID, err := strconv.Atoi(r.URL.Query().Get("receiverId"))
	if err != nil || receiverID <= 0 {
		http.Error(w, "Invalid receiverId", http.StatusBadRequest)
		return
	}

	// Callers can only read conversations they are part of.
	if senderID != account.ID && receiverID != account.ID {
		http.Error(w, "Not a participant of this conversation", http.StatusForbidden)
		return
	}

	messages, err := h.Store.GetConversation(r.Context(), senderID, receiverID)
	if err != nil {
		http.Error(w, "Failed to get messages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// MarkConversationReadHandler handles PUT /api/chat/{partnerId}/read,
// flagging everything the partner sent to the caller.
func (h *Handler) MarkConversationReadHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	partnerID, err := strconv.Atoi(chi.URLParam(r, "partnerId"))
	if err != nil || partnerID <= 0 {
		http.Error(w, "Invalid partnerId", http.StatusBadRequest)
		return
	}

	updated, err := h.Store.MarkConversationRead(r.Context(), account.ID, partnerID)
	if err != nil {
		http.Error(w, "Failed to mark messages read", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
