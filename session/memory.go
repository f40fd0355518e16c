package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process [Store]. A single mutex serializes every
// access, which gives read-your-writes across goroutines.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryStore returns an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.records[ClientFromContext(ctx)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, raw []byte) error {
	stored := make([]byte, len(raw))
	copy(stored, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[ClientFromContext(ctx)] = stored
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, ClientFromContext(ctx))
	return nil
}

// Len returns the number of scopes holding a record.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
