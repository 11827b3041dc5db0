package products

import (
	"context"
	"sync"
)

// MemStore is the default backend. It holds documents in a plain slice
// guarded by a mutex and starts empty on every boot.
type MemStore struct {
	mu    sync.RWMutex
	items []Product
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.items {
		if p["id"] == id {
			return p.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (s *MemStore) Append(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, p.Clone())
	return nil
}

func (s *MemStore) Replace(ctx context.Context, id string, p Product) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item["id"] == id {
			stored := p.Clone()
			s.items[i] = stored
			return stored.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item["id"] == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
