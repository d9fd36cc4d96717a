package progression

import "sync"

// keyLock is a lock table granting at most one in-flight mutation per
// (game, user) key. Different keys proceed fully in parallel; waiters
// on the same key queue on that key's mutex, each seeing the prior
// holder's committed result. Entries are reference-counted so the
// table does not grow with the number of players ever seen.
type keyLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[string]*lockEntry)}
}

// Acquire blocks until the key's critical section is free and returns
// the release function.
func (l *keyLock) Acquire(key string) func() {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
