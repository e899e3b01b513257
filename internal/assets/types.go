package assets

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Mipmap holds the storage paths of the downscaled variants generated
// upstream at upload time.
type Mipmap struct {
	X128 string `json:"x128"`
	X32  string `json:"x32"`
}

// Asset is the metadata record for one uploaded binary. The binary itself and
// its mipmaps live in the blob store; records are never mutated in place,
// only created and deleted.
type Asset struct {
	bun.BaseModel `bun:"table:assets,alias:a"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	TenantID    uuid.UUID      `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Active      bool           `bun:"active,notnull,default:true" json:"active"`
	Name        string         `bun:"name,notnull" json:"name"`
	Ext         string         `bun:"ext,notnull" json:"ext"`
	StoragePath string         `bun:"storage_path,notnull" json:"storage_path"`
	Mipmap      Mipmap         `bun:"mipmap,type:jsonb" json:"mipmap"`
	Extra       map[string]any `bun:"extra,type:jsonb" json:"extra,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
