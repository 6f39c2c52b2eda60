package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

const (
	DefaultMessageFrom    = "system@claims.local"
	DefaultMessageSubject = "(no subject)"
)

// PostMessageInput is an inbound message. Body may hold any JSON value.
type PostMessageInput struct {
	From    string          `json:"from"`
	Subject string          `json:"subject"`
	Body    json.RawMessage `json:"body"`
}

// MessageService handles the messaging inbox
type MessageService struct {
	repo repositories.MessageRepository
	now  func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(repo repositories.MessageRepository) *MessageService {
	return &MessageService{repo: repo, now: time.Now}
}

// Post stores a message. A JSON string body is stored as its text; any other
// JSON value is stored as compact JSON.
func (s *MessageService) Post(ctx context.Context, in PostMessageInput) (*entities.Message, error) {
	body, err := messageBodyText(in.Body)
	if err != nil {
		return nil, err
	}

	message := &entities.Message{
		From:       orDefault(in.From, DefaultMessageFrom),
		Subject:    orDefault(in.Subject, DefaultMessageSubject),
		Body:       body,
		ReceivedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// List returns messages newest first
func (s *MessageService) List(ctx context.Context, filter repositories.MessageFilter) ([]*entities.Message, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one message
func (s *MessageService) Get(ctx context.Context, id int64) (*entities.Message, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkRead flags a message as read; calling it again is harmless
func (s *MessageService) MarkRead(ctx context.Context, id int64) (*entities.Message, error) {
	return s.repo.MarkRead(ctx, id)
}

// Delete removes a message
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UnreadCount returns how many messages have not been read
func (s *MessageService) UnreadCount(ctx context.Context) (int, error) {
	unread := false
	messages, err := s.repo.List(ctx, repositories.MessageFilter{Read: &unread})
	if err != nil {
		return 0, err
	}
	return len(messages), nil
}

var errBodyRequired = apperrors.NewValidationError("Message body is required")

func messageBodyText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errBodyRequired
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", apperrors.NewValidationError("Message body is not valid JSON")
		}
		if strings.TrimSpace(text) == "" {
			return "", errBodyRequired
		}
		return text, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", apperrors.NewValidationError("Message body is not valid JSON")
	}
	return compact.String(), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
