// Package memory is the in-process Store backend. Records are lost on restart.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/RentalGo/pkg/errors"
)

type entryKey struct {
	visitor string
	key     string
}

// Store implements repository.Store with a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	data map[entryKey]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[entryKey]string)}
}

// Get returns the value of key for visitorID.
func (s *Store) Get(_ context.Context, visitorID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[entryKey{visitorID, key}]
	if !ok {
		return "", apperrors.NotFound("store key", key)
	}
	return v, nil
}

// Set stores value under key for visitorID.
func (s *Store) Set(_ context.Context, visitorID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[entryKey{visitorID, key}] = value
	return nil
}

// Ping always succeeds; it lets the memory backend share the readiness check
// wiring of the redis backend.
func (s *Store) Ping(context.Context) error {
	return nil
}
