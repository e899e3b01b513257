package catalog

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation for scaffolding and tests.
type MemoryProductRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Product
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{records: make(map[uuid.UUID]*Product)}
}

func (m *MemoryProductRepository) Create(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneProduct(record)
	m.records[copied.ID] = copied
	return cloneProduct(copied), nil
}

func (m *MemoryProductRepository) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Resource: "product", Key: id.String()}
	}
	return cloneProduct(rec), nil
}

func (m *MemoryProductRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Product, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneProduct(rec))
		}
	}
	return out, nil
}

func (m *MemoryProductRepository) Update(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.TenantID != record.TenantID {
		return nil, &NotFoundError{Resource: "product", Key: record.ID.String()}
	}
	copied := cloneProduct(record)
	m.records[copied.ID] = copied
	return cloneProduct(copied), nil
}

func (m *MemoryProductRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return &NotFoundError{Resource: "product", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

// MemorySelectorRepository is an in-memory implementation for scaffolding and tests.
type MemorySelectorRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Selector
}

// NewMemorySelectorRepository creates an empty in-memory selector repository.
func NewMemorySelectorRepository() *MemorySelectorRepository {
	return &MemorySelectorRepository{records: make(map[uuid.UUID]*Selector)}
}

func (m *MemorySelectorRepository) Create(_ context.Context, record *Selector) (*Selector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneSelector(record)
	m.records[copied.ID] = copied
	return cloneSelector(copied), nil
}

func (m *MemorySelectorRepository) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Selector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Resource: "selector", Key: id.String()}
	}
	return cloneSelector(rec), nil
}

func (m *MemorySelectorRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Selector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Selector, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneSelector(rec))
		}
	}
	return out, nil
}

func (m *MemorySelectorRepository) Update(_ context.Context, record *Selector) (*Selector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.TenantID != record.TenantID {
		return nil, &NotFoundError{Resource: "selector", Key: record.ID.String()}
	}
	copied := cloneSelector(record)
	m.records[copied.ID] = copied
	return cloneSelector(copied), nil
}

func (m *MemorySelectorRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return &NotFoundError{Resource: "selector", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

// MemoryTagRepository is an in-memory implementation for scaffolding and tests.
type MemoryTagRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Tag
}

// NewMemoryTagRepository creates an empty in-memory tag repository.
func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{records: make(map[uuid.UUID]*Tag)}
}

func (m *MemoryTagRepository) Create(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneTag(record)
	m.records[copied.ID] = copied
	return cloneTag(copied), nil
}

func (m *MemoryTagRepository) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, &NotFoundError{Resource: "tag", Key: id.String()}
	}
	return cloneTag(rec), nil
}

func (m *MemoryTagRepository) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Tag, 0)
	for _, rec := range m.records {
		if rec.TenantID == tenantID {
			out = append(out, cloneTag(rec))
		}
	}
	return out, nil
}

func (m *MemoryTagRepository) Update(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.TenantID != record.TenantID {
		return nil, &NotFoundError{Resource: "tag", Key: record.ID.String()}
	}
	copied := cloneTag(record)
	m.records[copied.ID] = copied
	return cloneTag(copied), nil
}

func (m *MemoryTagRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.TenantID != tenantID {
		return &NotFoundError{Resource: "tag", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

func cloneProduct(src *Product) *Product {
	if src == nil {
		return nil
	}
	copied := *src
	if src.JointNodeID != nil {
		joint := *src.JointNodeID
		copied.JointNodeID = &joint
	}
	copied.Contents = src.Contents.Clone()
	if src.Extra != nil {
		copied.Extra = maps.Clone(src.Extra)
	}
	return &copied
}

func cloneSelector(src *Selector) *Selector {
	if src == nil {
		return nil
	}
	copied := *src
	if src.JointNodeID != nil {
		joint := *src.JointNodeID
		copied.JointNodeID = &joint
	}
	copied.Contents = src.Contents.Clone()
	if src.Extra != nil {
		copied.Extra = maps.Clone(src.Extra)
	}
	return &copied
}

func cloneTag(src *Tag) *Tag {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Contents = src.Contents.Clone()
	if src.Extra != nil {
		copied.Extra = maps.Clone(src.Extra)
	}
	return &copied
}
