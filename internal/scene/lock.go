package scene

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// spinBudget is how many relaxed loads a waiter makes before yielding.
const spinBudget = 16

// spinLock is a single CAS flag. It is not reentrant.
type spinLock struct {
	state atomic.Uint32
}

func (l *spinLock) lock() {
	for !l.state.CompareAndSwap(0, 1) {
		for i := 0; i < spinBudget && l.state.Load() != 0; i++ {
		}
		runtime.Gosched()
	}
}

func (l *spinLock) tryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

func (l *spinLock) unlock() {
	l.state.Store(0)
}

func (l *spinLock) reset() {
	l.state.Store(0)
}

// Lock acquires the object's transform lock.
func (o *Object) Lock() { o.mu.lock() }

// TryLock acquires the lock if it is free.
func (o *Object) TryLock() bool { return o.mu.tryLock() }

// Unlock releases the object's transform lock.
func (o *Object) Unlock() { o.mu.unlock() }

var _ sync.Locker = (*Object)(nil)

// LockPolicy selects at instantiation time whether hot loops take locks.
// Code generic over a LockPolicy is written once and instantiated with
// Concurrent for pool tasks and Serial for single-goroutine passes.
type LockPolicy interface {
	Concurrent | Serial
	Lock(l sync.Locker)
	Unlock(l sync.Locker)
}

// Concurrent takes every lock it is handed.
type Concurrent struct{}

func (Concurrent) Lock(l sync.Locker)   { l.Lock() }
func (Concurrent) Unlock(l sync.Locker) { l.Unlock() }

// Serial elides locking. Use it only when no other goroutine can touch the
// same objects.
type Serial struct{}

func (Serial) Lock(sync.Locker)   {}
func (Serial) Unlock(sync.Locker) {}
