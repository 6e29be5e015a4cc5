package transferreadmodel

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and single-process setups.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]TransferRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]TransferRecord),
	}
}

// Save stores the record, overwriting any previous version.
func (s *MemoryStore) Save(_ context.Context, record TransferRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.TransferID] = record

	return nil
}

// UpdateState sets the state of an existing record. Updating an unknown
// transfer returns ErrTransferNotFound.
func (s *MemoryStore) UpdateState(_ context.Context, transferID string, state string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[transferID]
	if !ok {
		return ErrTransferNotFound
	}

	record.State = state
	record.UpdatedAt = updatedAt
	s.records[transferID] = record

	return nil
}

// FindByID returns the record for the transfer id, or ErrTransferNotFound.
func (s *MemoryStore) FindByID(_ context.Context, transferID string) (TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[transferID]
	if !ok {
		return TransferRecord{}, ErrTransferNotFound
	}

	return record, nil
}
