package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/claimsflow/internal/adapters/memory"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

func newClaim(id string, at time.Time) *entities.Claim {
	return &entities.Claim{
		ID:           id,
		PolicyNumber: "POL-1",
		Description:  "x",
		Amount:       500,
		Date:         "2024-01-01",
		Status:       entities.ClaimStatusPending,
		SubmittedAt:  at,
		UpdatedAt:    at,
	}
}

func TestClaimStore_CreateGetList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewClaimStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newClaim("a", base)))
	require.NoError(t, store.Create(ctx, newClaim("b", base.Add(time.Minute))))

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "POL-1", got.PolicyNumber)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	err = store.Create(ctx, newClaim("a", base))
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))
}

func TestClaimStore_UpdateAbortsOnMutationError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewClaimStore()
	require.NoError(t, store.Create(ctx, newClaim("a", time.Now())))

	_, err := store.Update(ctx, "a", func(c *entities.Claim) error {
		c.Status = entities.ClaimStatusAccepted
		return fmt.Errorf("abort")
	})
	assert.Error(t, err)

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimStatusPending, got.Status)
}

func TestClaimStore_UnknownID(t *testing.T) {
	store := memory.NewClaimStore()

	_, err := store.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))

	_, err = store.Update(context.Background(), "missing", func(*entities.Claim) error { return nil })
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}

func TestClaimStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := memory.NewClaimStore()
	require.NoError(t, store.Create(ctx, newClaim("a", time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, "a", func(c *entities.Claim) error {
				c.Notes = append(c.Notes, entities.ClaimNote{ID: fmt.Sprint(i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got.Notes, 50)
}

func TestMessageStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMessageStore()

	first := &entities.Message{Body: "first"}
	second := &entities.Message{Body: "second"}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	assert.Greater(t, second.ID, first.ID)

	all, err := store.List(ctx, repositories.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Body)

	read, err := store.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	again, err := store.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, again.Read)

	unread := false
	onlyUnread, err := store.List(ctx, repositories.MessageFilter{Read: &unread})
	require.NoError(t, err)
	require.Len(t, onlyUnread, 1)
	assert.Equal(t, second.ID, onlyUnread[0].ID)

	require.NoError(t, store.Delete(ctx, second.ID))
	err = store.Delete(ctx, second.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))

	_, err = store.MarkRead(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}
