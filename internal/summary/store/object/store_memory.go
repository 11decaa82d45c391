// Package object provides ObjectStore implementations: an in-memory store
// for tests and local runs, and a Redis-backed store for deployments.
package object

import (
	"context"
	"sync"

	"eventgate/pkg/platform/sentinel"
)

type InMemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewInMemory() *InMemoryObjectStore {
	return &InMemoryObjectStore{
		objects: make(map[string][]byte),
	}
}

func (s *InMemoryObjectStore) Put(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(payload))
	copy(copied, payload)
	s.objects[name] = copied
	return nil
}

func (s *InMemoryObjectStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, exists := s.objects[name]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	copied := make([]byte, len(payload))
	copy(copied, payload)
	return copied, nil
}

// Names returns all stored object names. For tests.
func (s *InMemoryObjectStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	return names
}
