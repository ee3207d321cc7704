package got

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_AcquireCancelsPredecessor(t *testing.T) {
	t.Parallel()

	co := newCoordinator(debugLogger, false)

	ctx1, sl1 := co.acquire(context.Background(), "op")
	require.NotNil(t, sl1)
	require.NoError(t, ctx1.Err())

	ctx2, sl2 := co.acquire(context.Background(), "op")
	require.NotNil(t, sl2)

	// The first slot is cancelled with the supersession cause.
	<-ctx1.Done()
	assert.ErrorIs(t, context.Cause(ctx1), ErrSuperseded)

	// The successor is unaffected and is the only registered slot.
	assert.NoError(t, ctx2.Err())
	assert.Equal(t, 1, co.size())
}

func TestCoordinator_EmptyNameNeverTracked(t *testing.T) {
	t.Parallel()

	co := newCoordinator(debugLogger, false)

	ctx := context.Background()
	got, sl := co.acquire(ctx, "")

	assert.Nil(t, sl)
	assert.Equal(t, ctx, got)
	assert.Equal(t, 0, co.size())

	// Releasing an untracked call is a no-op.
	co.release("", nil)
	assert.Equal(t, 0, co.size())
}

func TestCoordinator_DistinctNamesIndependent(t *testing.T) {
	t.Parallel()

	co := newCoordinator(debugLogger, false)

	ctx1, _ := co.acquire(context.Background(), "a")
	ctx2, _ := co.acquire(context.Background(), "b")

	assert.NoError(t, ctx1.Err())
	assert.NoError(t, ctx2.Err())
	assert.Equal(t, 2, co.size())
}

func TestCoordinator_ReleaseRemovesOwnSlotOnly(t *testing.T) {
	t.Parallel()

	co := newCoordinator(debugLogger, false)

	_, sl1 := co.acquire(context.Background(), "op")
	_, sl2 := co.acquire(context.Background(), "op")

	// The superseded loser finishing late must not evict its
	// successor's slot.
	co.release("op", sl1)
	assert.True(t, co.active("op"))

	co.release("op", sl2)
	assert.False(t, co.active("op"))

	// Releasing again is safe.
	co.release("op", sl2)
	assert.Equal(t, 0, co.size())
}
