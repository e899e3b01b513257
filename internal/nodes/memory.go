package nodes

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Node
}

// NewMemoryRepository creates an empty in-memory node repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]*Node),
	}
}

// Create inserts the supplied node.
func (m *MemoryRepository) Create(_ context.Context, record *Node) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneNode(record)
	m.records[copied.ID] = copied
	return cloneNode(copied), nil
}

// GetByID retrieves a node scoped to the tenant.
func (m *MemoryRepository) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneNode(rec), nil
}

// ListByTenant returns every node owned by the tenant.
func (m *MemoryRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Node, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneNode(rec))
		}
	}
	return out, nil
}

// Update replaces the stored node.
func (m *MemoryRepository) Update(_ context.Context, record *Node) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.TenantID != record.TenantID {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	copied := cloneNode(record)
	m.records[copied.ID] = copied
	return cloneNode(copied), nil
}

// DeleteByIDs removes the given nodes in one batch.
func (m *MemoryRepository) DeleteByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if rec, ok := m.records[id]; ok && rec.TenantID == tenantID {
			delete(m.records, id)
		}
	}
	return nil
}

func cloneNode(src *Node) *Node {
	if src == nil {
		return nil
	}
	copied := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		copied.ParentID = &parent
	}
	if src.Children != nil {
		copied.Children = append([]uuid.UUID(nil), src.Children...)
	}
	if src.Scenarios != nil {
		copied.Scenarios = append([]Scenario(nil), src.Scenarios...)
	}
	if src.Extra != nil {
		copied.Extra = maps.Clone(src.Extra)
	}
	return &copied
}
