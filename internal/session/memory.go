package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[T any] struct {
	v    T
	seen time.Time
}

// MemoryStore keeps values in process memory; nothing survives a restart.
type MemoryStore[T any] struct {
	mu  sync.Mutex
	m   map[string]*entry[T]
	now func() time.Time
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{m: map[string]*entry[T]{}, now: time.Now}
}

// Get returns the value for id and marks it as used.
func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	e.seen = s.now()
	return e.v, true, nil
}

func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = &entry[T]{v: v, seen: s.now()}
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

// Sweep drops idle entries. evict runs after the lock is released.
func (s *MemoryStore[T]) Sweep(_ context.Context, maxIdle time.Duration, evict func(id string, v T)) int {
	s.mu.Lock()
	now := s.now()
	expired := map[string]T{}
	for id, e := range s.m {
		if now.Sub(e.seen) >= maxIdle {
			expired[id] = e.v
			delete(s.m, id)
		}
	}
	s.mu.Unlock()

	if evict != nil {
		for id, v := range expired {
			evict(id, v)
		}
	}
	return len(expired)
}

func (s *MemoryStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *MemoryStore[T]) NewID() string {
	return uuid.NewString()
}
