package store

import (
	"sync"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// MemStore is an append-only in-memory record store that preserves arrival order.
type MemStore struct {
	mu   sync.RWMutex
	data []domain.Record
}

// NewMemStore seeds the store with the bootstrap records.
func NewMemStore(seed []domain.Record) *MemStore {
	data := make([]domain.Record, len(seed), len(seed)+len(seed)/2+1)
	copy(data, seed)
	return &MemStore{data: data}
}

func (s *MemStore) Append(batch []domain.Record) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, batch...)
}

// Snapshot returns the records appended so far. Stored records are never
// rewritten, and the slice capacity is capped so appending to it copies.
func (s *MemStore) Snapshot() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.data)
	return s.data[:n:n]
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ ports.TelemetryStore = (*MemStore)(nil)
