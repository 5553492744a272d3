// Package state holds shared values with a typed read/subscribe contract.
package state

import "sync"

// Store holds one value of T. Subscribers are called synchronously, in
// subscription order, after every Set.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Update applies fn to the current value and stores the result.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	s.mu.Unlock()
	s.Set(v)
}

// Subscribe registers fn and returns its unsubscribe func. Calling the
// returned func more than once is a no-op.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})
	return func() { s.unsubscribe(id) }
}

func (s *Store[T]) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
