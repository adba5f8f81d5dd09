package cursor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, 1, at))

	got, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(at))

	// Cursors are independent per collection.
	_, ok, err = store.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	later := at.Add(time.Hour)
	require.NoError(t, store.Set(ctx, 1, later))
	got, _, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(later))
}
