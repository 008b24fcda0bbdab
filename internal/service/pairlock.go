package service

import (
	"fmt"
	"sync"

	"wakili/internal/models"
)

// PairLocker serializes work on one unordered user pair. Two concurrent
// requests touching the same pair take the same mutex regardless of call
// order (A,B) vs (B,A); requests on different pairs proceed in parallel.
type PairLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPairLocker() *PairLocker {
	return &PairLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *PairLocker) lockFor(a, b uint) *sync.Mutex {
	u1, u2 := models.SortPair(a, b)
	key := fmt.Sprintf("%d:%d", u1, u2)
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// Lock acquires the pair's mutex and returns the unlock func.
func (l *PairLocker) Lock(a, b uint) func() {
	m := l.lockFor(a, b)
	m.Lock()
	return m.Unlock
}
