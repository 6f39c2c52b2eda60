package memory

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// MessageStore keeps messages newest first in a guarded slice
type MessageStore struct {
	mu       sync.RWMutex
	messages []*entities.Message
	lastID   int64
	now      func() time.Time
}

// NewMessageStore creates an empty message store
func NewMessageStore() *MessageStore {
	return &MessageStore{now: time.Now}
}

var _ repositories.MessageRepository = (*MessageStore)(nil)

// Create prepends message. IDs follow the creation time in milliseconds and
// are bumped when two messages land in the same millisecond.
func (s *MessageStore) Create(ctx context.Context, message *entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.ID == 0 {
		id := s.now().UnixMilli()
		if id <= s.lastID {
			id = s.lastID + 1
		}
		message.ID = id
	} else if s.indexOf(message.ID) >= 0 {
		return apperrors.NewConflictError("message already exists")
	}
	if message.ID > s.lastID {
		s.lastID = message.ID
	}

	stored := *message
	s.messages = append([]*entities.Message{&stored}, s.messages...)
	return nil
}

// GetByID retrieves a message by ID
func (s *MessageStore) GetByID(ctx context.Context, id int64) (*entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("Message not found")
	}
	out := *s.messages[i]
	return &out, nil
}

// List returns messages in storage order, which is newest first
func (s *MessageStore) List(ctx context.Context, filter repositories.MessageFilter) ([]*entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if filter.Read != nil && m.Read != *filter.Read {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// MarkRead sets the read flag; repeating it is harmless
func (s *MessageStore) MarkRead(ctx context.Context, id int64) (*entities.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("Message not found")
	}
	s.messages[i].Read = true
	out := *s.messages[i]
	return &out, nil
}

// Delete removes a message
func (s *MessageStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError("Message not found")
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	return nil
}

func (s *MessageStore) indexOf(id int64) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}
