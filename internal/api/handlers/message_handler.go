package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
)

// MessageService defines the inbox operations used by the handler.
type MessageService interface {
	Post(ctx context.Context, in services.PostMessageInput) (*entities.Message, error)
	List(ctx context.Context, filter repositories.MessageFilter) ([]*entities.Message, error)
	Get(ctx context.Context, id int64) (*entities.Message, error)
	MarkRead(ctx context.Context, id int64) (*entities.Message, error)
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context) (int, error)
}

// MessageHandler handles the messaging inbox
type MessageHandler struct {
	service MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// PostMessage handles POST /api/messages
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var in services.PostMessageInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	message, err := h.service.Post(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message received",
		"data":    message,
	})
}

// ListMessages handles GET /api/messages[?status=read|unread]
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	var filter repositories.MessageFilter
	switch r.URL.Query().Get("status") {
	case "":
	case "read":
		read := true
		filter.Read = &read
	case "unread":
		read := false
		filter.Read = &read
	default:
		respondWithError(w, http.StatusBadRequest, "status must be read or unread")
		return
	}

	messages, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

// UnreadCount handles GET /api/messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}

// GetMessage handles GET /api/messages/{id}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	message, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}

// MarkRead handles PATCH /api/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	message, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}

// DeleteMessage handles DELETE /api/messages/{id}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// messageID parses the {id} path value. A non-integer id cannot name a
// message, so it is answered as not found.
func messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Message not found")
		return 0, false
	}
	return id, true
}
