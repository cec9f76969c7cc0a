// Package storemock provides an in-memory store.Store for usecase and
// handler tests. Behavior defaults to a map-backed store; individual calls
// can be overridden with the Fn fields.
package storemock

import (
	"context"
	"sync"

	"loanverse/internal/domain/store"
)

type Store struct {
	LoadFn func(ctx context.Context, key string) ([]byte, error)
	SaveFn func(ctx context.Context, key string, doc []byte) error

	mu   sync.Mutex
	docs map[string][]byte
}

func New() *Store { return &Store{docs: make(map[string][]byte)} }

// Seed installs a document without going through Save.
func (s *Store) Seed(key string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), doc...)
}

// Doc returns the currently stored document, or nil.
func (s *Store) Doc(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.docs[key]...)
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s.LoadFn != nil {
		return s.LoadFn(ctx, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, key, doc)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), doc...)
	return nil
}
