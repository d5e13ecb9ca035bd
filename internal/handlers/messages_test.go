package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atelier/internal/handlers/testutils"
	"atelier/models"

	"github.com/stretchr/testify/require"
)

func sendMessage(t *testing.T, handler http.HandlerFunc, senderID, receiverID int, content string) *httptest.ResponseRecorder {
	t.Helper()
	reqBody := fmt.Sprintf(`{"receiverId":%d,"content":%q}`, receiverID, content)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(reqBody)), senderID)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func listConversation(t *testing.T, handler http.HandlerFunc, callerID, senderID, receiverID int) []models.Message {
	t.Helper()
	req := authed(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/chat?senderId=%d&receiverId=%d", senderID, receiverID), nil), callerID)
	w := httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	var got []models.Message
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&got))
	return got
}

func TestSendMessageHandler(t *testing.T) {
	handler, store := newTestHandler()
	alice := seedAccount(store, "Alice", "alice@example.com", models.RoleCustomer)
	dana := seedAccount(store, "Dana", "dana@example.com", models.RoleDesigner)

	w := sendMessage(t, handler.SendMessageHandler, alice.ID, dana.ID, "Hi Dana")
	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got models.Message
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Equal(t, alice.ID, got.SenderID)
	require.Equal(t, dana.ID, got.ReceiverID)
	require.False(t, got.Read)
}

func TestSendMessageHandlerNotAuthenticated(t *testing.T) {
	handler, _ := newTestHandler()

	reqBody := `{"receiverId":2,"content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(reqBody))
	w := httptest.NewRecorder()
	handler.SendMessageHandler(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestSendMessageHandlerReceiverNotFound(t *testing.T) {
	handler, store := newTestHandler()
	alice := seedAccount(store, "Alice", "alice@example.com", models.RoleCustomer)

	w := sendMessage(t, handler.SendMessageHandler, alice.ID, 999, "hello?")
	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetMessagesPairSymmetry(t *testing.T) {
	handler, store := newTestHandler()
	alice := seedAccount(store, "Alice", "alice@example.com", models.RoleCustomer)
	dana := seedAccount(store, "Dana", "dana@example.com", models.RoleDesigner)

	sendMessage(t, handler.SendMessageHandler, alice.ID, dana.ID, "Hi Dana")
	sendMessage(t, handler.SendMessageHandler, dana.ID, alice.ID, "Hi Alice")
	sendMessage(t, handler.SendMessageHandler, alice.ID, dana.ID, "How is the dress going?")

	forward := listConversation(t, handler.GetMessagesHandler, alice.ID, alice.ID, dana.ID)
	backward := listConversation(t, handler.GetMessagesHandler, alice.ID, dana.ID, alice.ID)

	require.Equal(t, forward, backward)
	require.Len(t, forward, 3)
	for i := 1; i < len(forward); i++ {
		require.False(t, forward[i].Timestamp.Before(forward[i-1].Timestamp))
	}
}

func TestGetMessagesNotParticipantForbidden(t *testing.T) {
	handler, store := newTestHandler()
	alice := seedAccount(store, "Alice", "alice@example.com", models.RoleCustomer)
	dana := seedAccount(store, "Dana", "dana@example.com", models.RoleDesigner)
	eve := seedAccount(store, "Eve", "eve@example.com", models.RoleCustomer)

	sendMessage(t, handler.SendMessageHandler, alice.ID, dana.ID, "private")

	req := authed(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/chat?senderId=%d&receiverId=%d", alice.ID, dana.ID), nil), eve.ID)
	w := httptest.NewRecorder()
	handler.GetMessagesHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestMarkConversationReadHandler(t *testing.T) {
	handler, store := newTestHandler()
	alice := seedAccount(store, "Alice", "alice@example.com", models.RoleCustomer)
	dana := seedAccount(store, "Dana", "dana@example.com", models.RoleDesigner)

	sendMessage(t, handler.SendMessageHandler, dana.ID, alice.ID, "one")
	sendMessage(t, handler.SendMessageHandler, dana.ID, alice.ID, "two")
	sendMessage(t, handler.SendMessageHandler, alice.ID, dana.ID, "reply")

	req := authed(httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/chat/%d/read", dana.ID), nil), alice.ID)
	req = testutils.WithChiURLParams(req, map[string]string{"partnerId": fmt.Sprint(dana.ID)})
	w := httptest.NewRecorder()
	handler.MarkConversationReadHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp map[string]int64
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	require.Equal(t, int64(2), resp["updated"])

	// Alice's own outgoing message stays unread on Dana's side.
	conversation := listConversation(t, handler.GetMessagesHandler, alice.ID, alice.ID, dana.ID)
	for _, msg := range conversation {
		if msg.ReceiverID == alice.ID {
			require.True(t, msg.Read)
		} else {
			require.False(t, msg.Read)
		}
	}
}
