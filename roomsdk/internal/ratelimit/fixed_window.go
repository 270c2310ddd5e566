package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// FixedWindow allows up to limit calls per key in each window. Windows are
// aligned to multiples of the window length.
type FixedWindow struct {
	counts sync.Map // string -> *bucket
	limit  int64
	window time.Duration
	now    func() time.Time

	sweeps atomic.Int64 // calls since the last sweep
}

type bucket struct {
	count   int64        // atomic
	resetAt atomic.Value // stores time.Time
	mu      sync.Mutex   // only for reset (rare)
}

const sweepEvery = 256

func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &FixedWindow{
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow records one call for key. When the window is exhausted it returns
// false and the time left until the window resets.
func (rl *FixedWindow) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	nextReset := now.Truncate(rl.window).Add(rl.window)

	if rl.sweeps.Add(1)%sweepEvery == 0 {
		rl.sweep(now)
	}

	val, _ := rl.counts.LoadOrStore(key, &bucket{})
	b := val.(*bucket)

	if b.resetAt.Load() == nil {
		b.mu.Lock()
		if b.resetAt.Load() == nil {
			atomic.StoreInt64(&b.count, 1)
			b.resetAt.Store(nextReset)
			b.mu.Unlock()
			return true, 0
		}
		b.mu.Unlock()
	}

	currentReset := b.resetAt.Load().(time.Time)
	if now.Before(currentReset) {
		return rl.take(b, now, currentReset)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Another goroutine may have reset the window while we waited.
	if currentReset := b.resetAt.Load().(time.Time); now.Before(currentReset) {
		return rl.take(b, now, currentReset)
	}

	atomic.StoreInt64(&b.count, 1)
	b.resetAt.Store(nextReset)
	return true, 0
}

func (rl *FixedWindow) take(b *bucket, now, resetAt time.Time) (bool, time.Duration) {
	if atomic.AddInt64(&b.count, 1)-1 >= rl.limit {
		atomic.AddInt64(&b.count, -1)
		return false, resetAt.Sub(now)
	}
	return true, 0
}

func (rl *FixedWindow) sweep(now time.Time) {
	rl.counts.Range(func(key, value any) bool {
		b := value.(*bucket)
		if resetAt := b.resetAt.Load(); resetAt != nil && now.After(resetAt.(time.Time)) {
			rl.counts.Delete(key)
		}
		return true
	})
}
