package handlers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/claimsflow/internal/adapters/memory"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

func newMessageMux() *http.ServeMux {
	handler := handlers.NewMessageHandler(services.NewMessageService(memory.NewMessageStore()))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/messages", handler.PostMessage)
	mux.HandleFunc("GET /api/messages", handler.ListMessages)
	mux.HandleFunc("GET /api/messages/unread-count", handler.UnreadCount)
	mux.HandleFunc("GET /api/messages/{id}", handler.GetMessage)
	mux.HandleFunc("PATCH /api/messages/{id}/read", handler.MarkRead)
	mux.HandleFunc("DELETE /api/messages/{id}", handler.DeleteMessage)
	return mux
}

type messageEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    entities.Message `json:"data"`
}

func postMessage(t *testing.T, h http.Handler, body string) entities.Message {
	t.Helper()
	w := do(t, h, "POST", "/api/messages", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var env messageEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, "Message received", env.Message)
	return env.Data
}

func TestMessageHandler_Post(t *testing.T) {
	mux := newMessageMux()

	msg := postMessage(t, mux, `{"body":{"claim":"POL-1"}}`)
	assert.Equal(t, `{"claim":"POL-1"}`, msg.Body)
	assert.Equal(t, services.DefaultMessageFrom, msg.From)

	w := do(t, mux, "POST", "/api/messages", `{"from":"a@b"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Message body is required", decodeError(t, w))
}

func TestMessageHandler_ListNewestFirst(t *testing.T) {
	mux := newMessageMux()
	postMessage(t, mux, `{"body":"first"}`)
	postMessage(t, mux, `{"body":"second"}`)

	w := do(t, mux, "GET", "/api/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []entities.Message
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Body)
}

func TestMessageHandler_MarkRead(t *testing.T) {
	mux := newMessageMux()
	msg := postMessage(t, mux, `{"body":"hello"}`)
	path := "/api/messages/" + strconv.FormatInt(msg.ID, 10) + "/read"

	for i := 0; i < 2; i++ {
		w := do(t, mux, "PATCH", path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var read entities.Message
		require.NoError(t, json.NewDecoder(w.Body).Decode(&read))
		assert.True(t, read.Read)
	}

	w := do(t, mux, "GET", "/api/messages?status=unread", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, mux, "GET", "/api/messages/unread-count", "")
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}

func TestMessageHandler_NotFound(t *testing.T) {
	mux := newMessageMux()

	for _, tc := range []struct{ method, path string }{
		{"PATCH", "/api/messages/999/read"},
		{"PATCH", "/api/messages/abc/read"},
		{"GET", "/api/messages/999"},
		{"DELETE", "/api/messages/999"},
	} {
		w := do(t, mux, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Equal(t, "Message not found", decodeError(t, w), tc.path)
	}
}

func TestMessageHandler_Delete(t *testing.T) {
	mux := newMessageMux()
	msg := postMessage(t, mux, `{"body":"bye"}`)

	w := do(t, mux, "DELETE", "/api/messages/"+strconv.FormatInt(msg.ID, 10), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestMessageHandler_BadStatusFilter(t *testing.T) {
	w := do(t, newMessageMux(), "GET", "/api/messages?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
