package lobby

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLocksDropUnusedEntries(t *testing.T) {
	l := newRoomLocks()

	release, err := l.acquire(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, l.len())

	release()
	release()
	assert.Zero(t, l.len())
}

func TestRoomLocksCancelledWaiterLeavesNoEntry(t *testing.T) {
	l := newRoomLocks()

	release, err := l.acquire(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.acquire(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.Zero(t, l.len())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "requesting", Requesting.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.True(t, Blocked.Terminal())
	assert.False(t, Validating.Terminal())
}

func TestCompose(t *testing.T) {
	check := Compose(NotBlank(ErrNameTooLong), MaxLen(3, ErrNameTooLong))
	assert.NoError(t, check("abc"))
	assert.ErrorIs(t, check(" "), ErrNameTooLong)
	assert.ErrorIs(t, check("abcd"), ErrNameTooLong)
	assert.NoError(t, check("äöü"))
}
