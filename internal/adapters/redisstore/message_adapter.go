// Package redisstore keeps messaging state in Redis so it outlives a process.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	redisclient "github.com/zatekoja/claimsflow/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

const (
	lastIDKey       = "messages:last_id"
	indexKey        = "messages:index"
	messageKeyShape = "message:%d"

	maxWatchRetries = 5
)

// nextID hands out the creation time in milliseconds, bumped past the last
// id so ids stay strictly increasing across writers.
var nextID = redis.NewScript(`
local now = tonumber(ARGV[1])
local last = tonumber(redis.call('GET', KEYS[1]) or '0')
local id = now
if id <= last then
  id = last + 1
end
redis.call('SET', KEYS[1], id)
return id
`)

// MessageAdapter implements the MessageRepository interface on Redis. Each
// message is a JSON string under message:<id>; a sorted set scored by id
// keeps the listing order.
type MessageAdapter struct {
	client *redisclient.Client
	now    func() time.Time
}

var _ repositories.MessageRepository = (*MessageAdapter)(nil)

// NewMessageAdapter creates a new message adapter
func NewMessageAdapter(client *redisclient.Client) *MessageAdapter {
	return &MessageAdapter{client: client, now: time.Now}
}

func messageKey(id int64) string {
	return fmt.Sprintf(messageKeyShape, id)
}

// Create stores a message, assigning its id when zero
func (a *MessageAdapter) Create(ctx context.Context, message *entities.Message) error {
	rdb := a.client.Client()

	if message.ID == 0 {
		id, err := nextID.Run(ctx, rdb, []string{lastIDKey}, a.now().UnixMilli()).Int64()
		if err != nil {
			return apperrors.NewStorageError("failed to allocate message id", err)
		}
		message.ID = id
	}

	data, err := json.Marshal(message)
	if err != nil {
		return apperrors.NewStorageError("failed to encode message", err)
	}

	_, err = rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, messageKey(message.ID), data, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(message.ID), Member: strconv.FormatInt(message.ID, 10)})
		return nil
	})
	if err != nil {
		return apperrors.NewStorageError("failed to store message", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (a *MessageAdapter) GetByID(ctx context.Context, id int64) (*entities.Message, error) {
	data, err := a.client.Client().Get(ctx, messageKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewNotFoundError("Message not found")
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get message", err)
	}
	return decodeMessage(data)
}

// List returns messages newest first
func (a *MessageAdapter) List(ctx context.Context, filter repositories.MessageFilter) ([]*entities.Message, error) {
	rdb := a.client.Client()

	ids, err := rdb.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list messages", err)
	}
	messages := []*entities.Message{}
	if len(ids) == 0 {
		return messages, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "message:" + id
	}
	values, err := rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load messages", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// deleted between the two reads
			continue
		}
		message, err := decodeMessage([]byte(raw))
		if err != nil {
			return nil, err
		}
		if filter.Read != nil && message.Read != *filter.Read {
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// MarkRead sets the read flag under WATCH so a concurrent delete is not undone
func (a *MessageAdapter) MarkRead(ctx context.Context, id int64) (*entities.Message, error) {
	rdb := a.client.Client()
	key := messageKey(id)

	var updated *entities.Message
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperrors.NewNotFoundError("Message not found")
		}
		if err != nil {
			return apperrors.NewStorageError("failed to get message", err)
		}

		message, err := decodeMessage(data)
		if err != nil {
			return err
		}
		updated = message
		if message.Read {
			return nil
		}
		message.Read = true

		encoded, err := json.Marshal(message)
		if err != nil {
			return apperrors.NewStorageError("failed to encode message", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperrors.NewStorageError("failed to mark message read", err)
		}
		return updated, nil
	}
	return nil, apperrors.NewStorageError("failed to mark message read", redis.TxFailedErr)
}

// Delete removes a message
func (a *MessageAdapter) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := a.client.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, messageKey(id))
		pipe.ZRem(ctx, indexKey, strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return apperrors.NewStorageError("failed to delete message", err)
	}
	if del.Val() == 0 {
		return apperrors.NewNotFoundError("Message not found")
	}
	return nil
}

func decodeMessage(data []byte) (*entities.Message, error) {
	message := &entities.Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, apperrors.NewStorageError("failed to decode message", err)
	}
	return message, nil
}
