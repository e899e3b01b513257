package refs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Ref
}

// NewMemoryRepository creates an empty in-memory reference repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]*Ref),
	}
}

// Get retrieves the record matching the key.
func (m *MemoryRepository) Get(_ context.Context, key Key) (*Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if matchesKey(rec, key) {
			return cloneRef(rec), nil
		}
	}
	return nil, &NotFoundError{Key: key}
}

// Create inserts the supplied record.
func (m *MemoryRepository) Create(_ context.Context, record *Ref) (*Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRef(record)
	m.records[copied.ID] = copied
	return cloneRef(copied), nil
}

// Update replaces the stored record.
func (m *MemoryRepository) Update(_ context.Context, record *Ref) (*Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: Key{TenantID: record.TenantID, Name: record.Name, Discriminator: record.Discriminator}}
	}
	copied := cloneRef(record)
	m.records[copied.ID] = copied
	return cloneRef(copied), nil
}

// ListByTenant returns every record owned by the tenant.
func (m *MemoryRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Ref, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneRef(rec))
		}
	}
	return out, nil
}

func matchesKey(rec *Ref, key Key) bool {
	if rec.TenantID != key.TenantID || rec.Name != key.Name {
		return false
	}
	if rec.Discriminator == nil || key.Discriminator == nil {
		return rec.Discriminator == nil && key.Discriminator == nil
	}
	return *rec.Discriminator == *key.Discriminator
}

func cloneRef(src *Ref) *Ref {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Discriminator = cloneStringPtr(src.Discriminator)
	return &copied
}
