package catalog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewProductRepository creates a repository for Product entities.
func NewProductRepository(db *bun.DB) repository.Repository[*Product] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(p *Product) string {
			if p == nil {
				return ""
			}
			return p.ID.String()
		},
	})
}

// NewSelectorRepository creates a repository for Selector entities.
func NewSelectorRepository(db *bun.DB) repository.Repository[*Selector] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Selector]{
		NewRecord: func() *Selector { return &Selector{} },
		GetID: func(s *Selector) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Selector, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(s *Selector) string {
			if s == nil {
				return ""
			}
			return s.ID.String()
		},
	})
}

// NewTagRepository creates a repository for Tag entities.
func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Tag) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}
