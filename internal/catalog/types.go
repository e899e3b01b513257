package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-kiosk/internal/contents"
)

// Product is a sellable item on the menu. Its joint node anchors the
// product inside the node tree.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID                  `bun:"id,pk,type:uuid" json:"id"`
	TenantID    uuid.UUID                  `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Active      bool                       `bun:"active" json:"active"`
	Position    int                        `bun:"position" json:"position"`
	JointNodeID *uuid.UUID                 `bun:"joint_node_id,type:uuid" json:"joint_node_id,omitempty"`
	Contents    contents.LocalizedContents `bun:"contents,type:jsonb" json:"contents"`
	Extra       map[string]any             `bun:"extra,type:jsonb" json:"extra,omitempty"`
	CreatedAt   time.Time                  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time                  `bun:"updated_at,notnull" json:"updated_at"`
}

// Selector groups products and other selectors under one menu branch.
type Selector struct {
	bun.BaseModel `bun:"table:selectors,alias:sel"`

	ID          uuid.UUID                  `bun:"id,pk,type:uuid" json:"id"`
	TenantID    uuid.UUID                  `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Active      bool                       `bun:"active" json:"active"`
	Position    int                        `bun:"position" json:"position"`
	JointNodeID *uuid.UUID                 `bun:"joint_node_id,type:uuid" json:"joint_node_id,omitempty"`
	Contents    contents.LocalizedContents `bun:"contents,type:jsonb" json:"contents"`
	Extra       map[string]any             `bun:"extra,type:jsonb" json:"extra,omitempty"`
	CreatedAt   time.Time                  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time                  `bun:"updated_at,notnull" json:"updated_at"`
}

// Tag labels products for filtering. Tags carry localized contents and
// the asset lifecycle but never enter the node tree.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tg"`

	ID        uuid.UUID                  `bun:"id,pk,type:uuid" json:"id"`
	TenantID  uuid.UUID                  `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Active    bool                       `bun:"active" json:"active"`
	Contents  contents.LocalizedContents `bun:"contents,type:jsonb" json:"contents"`
	Extra     map[string]any             `bun:"extra,type:jsonb" json:"extra,omitempty"`
	CreatedAt time.Time                  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time                  `bun:"updated_at,notnull" json:"updated_at"`
}
