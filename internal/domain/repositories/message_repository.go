package repositories

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// MessageFilter narrows a message listing
type MessageFilter struct {
	// Read, when set, keeps only messages whose read flag matches
	Read *bool
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	// Create stores a message; the repository assigns ID when it is zero
	Create(ctx context.Context, message *entities.Message) error

	// GetByID retrieves a message by ID
	GetByID(ctx context.Context, id int64) (*entities.Message, error)

	// List returns messages newest first
	List(ctx context.Context, filter MessageFilter) ([]*entities.Message, error)

	// MarkRead sets the read flag and returns the updated message
	MarkRead(ctx context.Context, id int64) (*entities.Message, error)

	// Delete removes a message
	Delete(ctx context.Context, id int64) error
}
