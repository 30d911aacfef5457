package app

import (
	"maps"
	"sync"
	"time"

	"gardenreach/internal/domain"
)

// memoryStore keeps selections for a single process run.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]domain.Selections
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]domain.Selections)}
}

func (m *memoryStore) Load(saveID string) (domain.Selections, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[saveID]
	if !ok {
		return domain.Selections{}, false, nil
	}
	record.Options = maps.Clone(record.Options)
	return record, true, nil
}

func (m *memoryStore) Save(record domain.Selections) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.Options = maps.Clone(record.Options)
	record.UpdatedAt = time.Now().UTC()
	m.records[record.SaveID] = record
	return nil
}
