// Package store caches OAuth token records per session state.
//
// Entries live for the lifetime of the process: they are replaced on refresh and removed on logout,
// but nothing sweeps stale records.
package store

import (
	"sync"

	"github.com/desertthunder/soundtrack/internal/models"
)

// TokenStore maps a session state to its [models.TokenRecord].
type TokenStore interface {
	Put(state string, record models.TokenRecord) // Put stores or replaces the record for state
	Get(state string) (models.TokenRecord, bool) // Get returns the record for state, if any
	Delete(state string)                         // Delete removes the record for state
}

// MemoryStore is a process-wide [TokenStore] backed by a map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.TokenRecord
}

var _ TokenStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.TokenRecord)}
}

func (s *MemoryStore) Put(state string, record models.TokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[state] = record
}

func (s *MemoryStore) Get(state string) (models.TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[state]
	return record, ok
}

func (s *MemoryStore) Delete(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, state)
}

// Len returns the number of cached sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
