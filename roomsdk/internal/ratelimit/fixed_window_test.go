package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowAllowsUpToLimit(t *testing.T) {
	rl := NewFixedWindow(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("GET /rooms")
	require.True(t, ok)
	ok, _ = rl.Allow("GET /rooms")
	require.True(t, ok)

	ok, retry := rl.Allow("GET /rooms")
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	ok, _ = rl.Allow("PATCH /rooms/1")
	assert.True(t, ok, "keys are counted separately")
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	rl := NewFixedWindow(1, time.Second)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("k")
	require.True(t, ok)
	ok, _ = rl.Allow("k")
	require.False(t, ok)

	now = now.Add(time.Second)
	ok, _ = rl.Allow("k")
	assert.True(t, ok)
}

func TestFixedWindowConcurrentCallers(t *testing.T) {
	rl := NewFixedWindow(10, time.Hour)
	now := time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}
