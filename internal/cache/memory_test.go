package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set(ctx, "key", payload{Name: "acme", Count: 3}))

	var got payload
	found, err := store.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "acme", Count: 3}, got)
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	var got string
	found, err := store.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "key", "value"))

	// Just inside the TTL window.
	current = current.Add(5*time.Minute - time.Second)
	var got string
	found, err := store.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", got)

	// Age == TTL counts as expired.
	current = current.Add(time.Second)
	found, err = store.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_OverwriteResetsClock(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "key", "old"))

	current = current.Add(59 * time.Second)
	require.NoError(t, store.Set(ctx, "key", "new"))

	current = current.Add(30 * time.Second)
	var got string
	found, err := store.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", got)
}
