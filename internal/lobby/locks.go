package lobby

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// roomLocks serializes mutations per room id. Entries are dropped once no
// caller holds or waits for them.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[int64]*roomLock
}

type roomLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{rooms: make(map[int64]*roomLock)}
}

// acquire blocks until id is free or ctx is done. The returned func
// releases the room.
func (l *roomLocks) acquire(ctx context.Context, id int64) (func(), error) {
	l.mu.Lock()
	lock, ok := l.rooms[id]
	if !ok {
		lock = &roomLock{sem: semaphore.NewWeighted(1)}
		l.rooms[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	if err := lock.sem.Acquire(ctx, 1); err != nil {
		l.unref(id, lock)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			lock.sem.Release(1)
			l.unref(id, lock)
		})
	}, nil
}

func (l *roomLocks) unref(id int64, lock *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.rooms, id)
	}
}

func (l *roomLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
