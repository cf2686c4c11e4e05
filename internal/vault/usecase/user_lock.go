package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// userLocks hands out one mutex per user, dropping it once no caller holds it.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uuid.UUID]*userLock)}
}

// lock blocks until userID is free and returns the matching unlock.
func (l *userLocks) lock(userID uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
