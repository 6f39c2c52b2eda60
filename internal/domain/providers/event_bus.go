package providers

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// EventChannelClaims carries every claim lifecycle event
const EventChannelClaims = "claims:events"

// EventPublisher publishes claim lifecycle events
type EventPublisher interface {
	// Publish sends event on channel
	Publish(ctx context.Context, channel string, event *entities.ClaimEvent) error

	// Close releases the publisher
	Close() error
}
