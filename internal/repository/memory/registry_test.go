package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyintel/internal/domain/run"
	"companyintel/pkg/errors"
)

func TestRunRegistry_Claim(t *testing.T) {
	reg := NewRunRegistry()
	ctx := context.Background()

	result, err := reg.Claim(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, "ACME", result.Symbol())
	assert.Equal(t, run.StatusRunning, result.Status())

	got, ok := reg.Get(ctx, "ACME")
	require.True(t, ok)
	assert.Same(t, result, got)
}

func TestRunRegistry_ClaimRejectsWhileRunning(t *testing.T) {
	reg := NewRunRegistry()
	ctx := context.Background()

	_, err := reg.Claim(ctx, "ACME")
	require.NoError(t, err)

	_, err = reg.Claim(ctx, "ACME")
	assert.ErrorIs(t, err, errors.ErrAlreadyRunning)

	// A different symbol is unaffected.
	_, err = reg.Claim(ctx, "OTHER")
	assert.NoError(t, err)
}

func TestRunRegistry_ReclaimAfterTerminal(t *testing.T) {
	reg := NewRunRegistry()
	ctx := context.Background()

	first, err := reg.Claim(ctx, "ACME")
	require.NoError(t, err)
	first.Complete()

	second, err := reg.Claim(ctx, "ACME")
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	second.Fail("boom")
	third, err := reg.Claim(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, run.StatusRunning, third.Status())

	// Get always returns the latest claim.
	got, ok := reg.Get(ctx, "ACME")
	require.True(t, ok)
	assert.Same(t, third, got)
}

func TestRunRegistry_GetUnknown(t *testing.T) {
	reg := NewRunRegistry()

	_, ok := reg.Get(context.Background(), "GHOST")
	assert.False(t, ok)
}

func TestRunRegistry_ConcurrentClaimsSingleWinner(t *testing.T) {
	reg := NewRunRegistry()
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Claim(ctx, "ACME"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
