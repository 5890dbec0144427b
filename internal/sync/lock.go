package sync

import "sync"

// keyedMutex serializes work per source ID. The find-then-create
// sequence against Bukku is not atomic, so two concurrent
// reconciliations of the same source ID could otherwise race to create
// duplicate target records. Different source IDs proceed in parallel.
type keyedMutex struct {
	// locks holds one entry per in-flight source ID.
	locks map[int64]*lockEntry

	// mu guards the locks map.
	mu sync.Mutex
}

// lockEntry is a reference-counted mutex for one source ID.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// newKeyedMutex creates an empty keyedMutex.
func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*lockEntry)}
}

// Lock acquires the mutex for the given source ID and returns the
// function that releases it.
func (k *keyedMutex) Lock(sourceID int64) func() {
	k.mu.Lock()
	entry, ok := k.locks[sourceID]
	if !ok {
		entry = &lockEntry{}
		k.locks[sourceID] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, sourceID)
		}
		k.mu.Unlock()
	}
}
