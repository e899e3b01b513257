package refs

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRefRepository creates a repository for Ref entities.
func NewRefRepository(db *bun.DB) repository.Repository[*Ref] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Ref]{
		NewRecord: func() *Ref { return &Ref{} },
		GetID: func(r *Ref) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Ref, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Ref) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}
