// Package keylock provides in-process mutual exclusion keyed by strings such as
// "order:<id>" or "table:<number>".
//
// A single Lock call may acquire several keys at once. Keys are always acquired in
// sorted order, so two callers locking overlapping key sets cannot deadlock.
// Entries are reference counted and dropped once nobody holds or waits for them.
package keylock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
)

// OrderKey returns the lock key of an order.
func OrderKey(id fmt.Stringer) string {
	return "order:" + id.String()
}

// TableKey returns the lock key of a table.
func TableKey(number int) string {
	return fmt.Sprintf("table:%d", number)
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker hands out exclusive locks per key. The zero value is not usable, use New.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Lock blocks until every key is held or ctx is done. On success it returns the
// function releasing all keys. On failure nothing stays held.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]string, 0, len(sorted))
	for _, key := range sorted {
		e := l.acquireEntry(key)
		if err := e.sem.Acquire(ctx, 1); err != nil {
			l.releaseEntry(key, false)
			l.unlockAll(held)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlockAll(held) })
	}, nil
}

func (l *Locker) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.releaseEntry(keys[i], true)
	}
}

func (l *Locker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseEntry(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	if held {
		e.sem.Release(1)
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size reports the number of live entries. Used by tests.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
