package mocks

import (
	"errors"
	"sync"
)

// ErrInjected is returned by a mock after FailWith(nil).
var ErrInjected = errors.New("injected repository failure")

// store is the map-backed storage shared by the in-memory repositories.
type store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	calls map[string]int
	err   error
}

func newStore[T any]() store[T] {
	return store[T]{
		items: make(map[string]T),
		calls: make(map[string]int),
	}
}

// call counts op and returns the injected failure, if any.
func (s *store[T]) call(op string) error {
	s.calls[op]++
	return s.err
}

func (s *store[T]) get(op, key string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if err := s.call(op); err != nil {
		return zero, false, err
	}
	item, ok := s.items[key]
	return item, ok, nil
}

func (s *store[T]) put(op, key string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.call(op); err != nil {
		return err
	}
	s.items[key] = item
	return nil
}

func (s *store[T]) remove(op, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.call(op); err != nil {
		return err
	}
	delete(s.items, key)
	return nil
}

func (s *store[T]) filter(op string, keep func(T) bool) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.call(op); err != nil {
		return nil, err
	}
	var out []T
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// CallCount returns how many times op was invoked.
func (s *store[T]) CallCount(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// FailWith makes every following call return err, or ErrInjected when err is nil.
func (s *store[T]) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.err = err
}

// Len returns the number of stored items.
func (s *store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Recover clears the failure injected by FailWith.
func (s *store[T]) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}
