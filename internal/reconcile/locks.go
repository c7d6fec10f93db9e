package reconcile

import "sync"

// entryLocks serializes merge/write phases per entry identity so concurrent
// imports can never interleave writes to the same entry.
type entryLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntryLocks() *entryLocks {
	return &entryLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *entryLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
