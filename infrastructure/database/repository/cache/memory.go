package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLocker is a process local Locker. ttl is ignored: a lock is held
// until released.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: map[string]*lockSlot{}}
}

func (ml *MemoryLocker) Acquire(ctx context.Context, key string, _ time.Duration) (func(), error) {
	ml.mu.Lock()
	slot, ok := ml.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		ml.slots[key] = slot
	}
	slot.refs++
	ml.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				ml.unref(key, slot)
			})
		}, nil
	case <-ctx.Done():
		ml.unref(key, slot)
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
}

func (ml *MemoryLocker) unref(key string, slot *lockSlot) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(ml.slots, key)
	}
}
