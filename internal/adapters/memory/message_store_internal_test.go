package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

func TestMessageStore_IDsStayMonotonicWithinOneMillisecond(t *testing.T) {
	store := NewMessageStore()
	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }

	first := &entities.Message{Body: "a"}
	second := &entities.Message{Body: "b"}
	require.NoError(t, store.Create(context.Background(), first))
	require.NoError(t, store.Create(context.Background(), second))

	assert.Equal(t, fixed.UnixMilli(), first.ID)
	assert.Equal(t, fixed.UnixMilli()+1, second.ID)
}
