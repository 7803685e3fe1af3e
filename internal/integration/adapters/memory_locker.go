// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
)

// keyLock is a one-slot semaphore shared by every caller waiting on the same definition.
type keyLock struct {
	slot chan struct{}
	refs int
}

// memoryLocker implements adapter.DefinitionLocker for a single process.
type memoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyLock
}

// NewMemoryDefinitionLocker creates an in-process definition locker.
func NewMemoryDefinitionLocker() adapter.DefinitionLocker {
	return &memoryLocker{
		locks: make(map[uuid.UUID]*keyLock),
	}
}

// Lock blocks until the definition's lock is held or ctx is done.
func (l *memoryLocker) Lock(ctx context.Context, definitionID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[definitionID]
	if !ok {
		lock = &keyLock{slot: make(chan struct{}, 1)}
		l.locks[definitionID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(definitionID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.slot
			l.release(definitionID, lock)
		})
	}, nil
}

// release drops a reference and forgets the key once nobody holds or waits for it.
func (l *memoryLocker) release(definitionID uuid.UUID, lock *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, definitionID)
	}
}
