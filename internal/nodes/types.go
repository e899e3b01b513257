package nodes

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-kiosk/internal/domain"
)

// Scenario attaches conditional display rules to a node (business periods,
// order types). The engine stores them opaquely; evaluation happens on the
// terminal.
type Scenario struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Node is one structural element of the navigation tree. Non-root nodes hold
// exactly one parent; children ids are denormalized onto the parent for
// cheap subtree walks.
type Node struct {
	bun.BaseModel `bun:"table:nodes,alias:n"`

	ID        uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	TenantID  uuid.UUID       `bun:"tenant_id,notnull,type:uuid" json:"tenant_id"`
	Active    bool            `bun:"active,notnull,default:true" json:"active"`
	Type      domain.NodeType `bun:"type,notnull" json:"type"`
	ParentID  *uuid.UUID      `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	ContentID uuid.UUID       `bun:"content_id,type:uuid" json:"content_id"`
	Children  []uuid.UUID     `bun:"children,type:jsonb" json:"children,omitempty"`
	Scenarios []Scenario      `bun:"scenarios,type:jsonb" json:"scenarios,omitempty"`
	Extra     map[string]any  `bun:"extra,type:jsonb" json:"extra,omitempty"`
	CreatedAt time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
