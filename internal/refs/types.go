package refs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-kiosk/internal/domain"
)

// Ref is the per-tenant reference version record terminals poll to detect
// staleness of a resource family. Version only ever moves up.
type Ref struct {
	bun.BaseModel `bun:"table:refs,alias:r"`

	ID            uuid.UUID           `bun:",pk,type:uuid" json:"id"`
	TenantID      uuid.UUID           `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Name          domain.ResourceType `bun:"name,notnull" json:"name"`
	Version       int                 `bun:"version,notnull,default:1" json:"version"`
	LastUpdate    time.Time           `bun:"last_update,nullzero,default:current_timestamp" json:"last_update"`
	Discriminator *string             `bun:"discriminator" json:"discriminator,omitempty"`
	CreatedAt     time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Key identifies a reference record: tenant + resource family + optional
// discriminator (e.g. theme records scoped per terminal type).
type Key struct {
	TenantID      uuid.UUID
	Name          domain.ResourceType
	Discriminator *string
}
