package assets

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Asset
}

// NewMemoryRepository creates an empty in-memory asset repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]*Asset),
	}
}

// Create inserts the supplied asset record.
func (m *MemoryRepository) Create(_ context.Context, record *Asset) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneAsset(record)
	m.records[copied.ID] = copied
	return cloneAsset(copied), nil
}

// GetByID retrieves an asset scoped to the tenant.
func (m *MemoryRepository) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneAsset(rec), nil
}

// ListByTenant returns all assets owned by the tenant.
func (m *MemoryRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Asset, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneAsset(rec))
		}
	}
	return out, nil
}

// Delete removes the record and returns it so callers can clean up blobs.
func (m *MemoryRepository) Delete(_ context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Key: id.String()}
	}
	delete(m.records, id)
	return cloneAsset(rec), nil
}

func cloneAsset(src *Asset) *Asset {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Extra != nil {
		copied.Extra = maps.Clone(src.Extra)
	}
	return &copied
}
