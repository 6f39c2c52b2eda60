package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
	redisclient "github.com/zatekoja/claimsflow/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventPublisher interface using Redis Pub/Sub
type RedisEventBus struct {
	client *redisclient.Client
}

// NewRedisEventBus creates a new Redis-based event publisher
func NewRedisEventBus(client *redisclient.Client) providers.EventPublisher {
	return &RedisEventBus{client: client}
}

// Publish publishes an event to all subscribers of channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.ClaimEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := b.client.Client().Publish(ctx, channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Int64("receivers", receivers).
		Msg("Published claim event")
	return nil
}

// Close is a no-op; the Redis client is owned by the caller
func (b *RedisEventBus) Close() error {
	return nil
}

// LogPublisher writes events to the log instead of a broker
type LogPublisher struct{}

// NewLogPublisher creates a publisher for deployments without Redis
func NewLogPublisher() providers.EventPublisher {
	return LogPublisher{}
}

// Publish logs the event
func (LogPublisher) Publish(ctx context.Context, channel string, event *entities.ClaimEvent) error {
	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("claim_id", event.ClaimID).
		Str("status", string(event.Status)).
		Msg("Claim event")
	return nil
}

// Close is a no-op
func (LogPublisher) Close() error {
	return nil
}
