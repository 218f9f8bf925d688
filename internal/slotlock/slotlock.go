// Package slotlock serializes booking operations per (nurse, date, time)
// key so that unrelated bookings proceed concurrently while two requests
// for the same slot never interleave their check-then-insert sections.
package slotlock

import (
	"context"
	"sync"
)

// Locker guards critical sections per slot key.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type entry struct {
	ch   chan struct{} // holds one token while unlocked
	refs int
}

// KeyedLocker is an in-process Locker. Entries are reference counted and
// removed once the last waiter releases, so the key map does not grow with
// the booking history.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		locks: make(map[string]*entry),
	}
}

// WithSlotLock acquires the lock for key, runs fn and releases. Acquisition
// honors context cancellation; fn receives the caller's context unchanged.
func (l *KeyedLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := l.retain(key)

	select {
	case <-e.ch:
	case <-ctx.Done():
		l.release(key, e, false)
		return ctx.Err()
	}

	defer l.release(key, e, true)
	return fn(ctx)
}

func (l *KeyedLocker) retain(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *KeyedLocker) release(key string, e *entry, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held {
		e.ch <- struct{}{}
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
