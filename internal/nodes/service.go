package nodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/logging"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

var (
	ErrTenantRequired       = errors.New("nodes: tenant id is required")
	ErrTypeInvalid          = errors.New("nodes: unknown node type")
	ErrParentRequired       = errors.New("nodes: parent id is required")
	ErrChildrenNotAllowed   = errors.New("nodes: node type cannot hold children")
	ErrSelfReference        = errors.New("nodes: node cannot contain itself")
	ErrContentRequired      = errors.New("nodes: content id is required")
	ErrParentCannotHoldNode = errors.New("nodes: parent node type cannot hold children")
)

// NotFoundError reports a missing node.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "node not found"
	}
	return fmt.Sprintf("node %q not found", e.Key)
}

// RecursionError reports that attaching content under a parent would nest a
// selector inside itself.
type RecursionError struct {
	ParentID  uuid.UUID
	ContentID uuid.UUID
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("nodes: attaching content %s under %s creates a cycle", e.ContentID, e.ParentID)
}

// Repository abstracts storage for tree nodes.
type Repository interface {
	Create(ctx context.Context, record *Node) (*Node, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Node, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Node, error)
	Update(ctx context.Context, record *Node) (*Node, error)
	DeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error
}

// CreateJointInput creates the root node anchoring a Product or Selector in
// the navigation tree.
type CreateJointInput struct {
	TenantID  uuid.UUID
	Type      domain.NodeType
	ContentID uuid.UUID
	Scenarios []Scenario
	Extra     map[string]any
}

// AttachInput inserts a child node under an existing parent.
type AttachInput struct {
	TenantID  uuid.UUID
	ParentID  uuid.UUID
	Type      domain.NodeType
	ContentID uuid.UUID
	Active    bool
	Children  []uuid.UUID
	Scenarios []Scenario
	Extra     map[string]any
}

// Service maintains the hierarchical structure linking menu entities.
type Service interface {
	CreateJoint(ctx context.Context, input CreateJointInput) (*Node, error)
	Attach(ctx context.Context, input AttachInput) (*Node, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Node, error)
	Chain(ctx context.Context, tenantID, rootID uuid.UUID) ([]*Node, error)
	DeleteChain(ctx context.Context, tenantID, rootID uuid.UUID) ([]uuid.UUID, error)
	WouldRecurse(ctx context.Context, tenantID, parentID, contentID uuid.UUID) (bool, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = clock
	}
}

// WithIDGenerator overrides node id generation.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a node tree service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJoint creates a parentless anchor node for a new entity.
func (s *service) CreateJoint(ctx context.Context, input CreateJointInput) (*Node, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if !input.Type.Valid() {
		return nil, ErrTypeInvalid
	}
	if input.ContentID == uuid.Nil {
		return nil, ErrContentRequired
	}

	now := s.now()
	return s.repo.Create(ctx, &Node{
		ID:        s.id(),
		TenantID:  input.TenantID,
		Active:    true,
		Type:      input.Type,
		ContentID: input.ContentID,
		Scenarios: input.Scenarios,
		Extra:     input.Extra,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Attach validates and inserts a child node under the parent. Selector nodes
// run the recursion check before any mutation so a selector can never end up
// nested inside itself, even transitively.
func (s *service) Attach(ctx context.Context, input AttachInput) (*Node, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if !input.Type.Valid() {
		return nil, ErrTypeInvalid
	}
	if input.ParentID == uuid.Nil {
		return nil, ErrParentRequired
	}
	if input.ContentID == uuid.Nil {
		return nil, ErrContentRequired
	}
	if !input.Type.AllowsChildren() && len(input.Children) > 0 {
		return nil, ErrChildrenNotAllowed
	}

	parent, err := s.repo.GetByID(ctx, input.TenantID, input.ParentID)
	if err != nil {
		return nil, err
	}
	if !parent.Type.AllowsChildren() {
		return nil, ErrParentCannotHoldNode
	}

	if input.Type == domain.NodeSelectorNode {
		recurse, err := s.WouldRecurse(ctx, input.TenantID, input.ParentID, input.ContentID)
		if err != nil {
			return nil, err
		}
		if recurse {
			return nil, &RecursionError{ParentID: input.ParentID, ContentID: input.ContentID}
		}
	}

	now := s.now()
	node := &Node{
		ID:        s.id(),
		TenantID:  input.TenantID,
		Active:    input.Active,
		Type:      input.Type,
		ParentID:  &input.ParentID,
		ContentID: input.ContentID,
		Children:  append([]uuid.UUID(nil), input.Children...),
		Scenarios: input.Scenarios,
		Extra:     input.Extra,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, child := range node.Children {
		if child == node.ID {
			return nil, ErrSelfReference
		}
	}

	created, err := s.repo.Create(ctx, node)
	if err != nil {
		return nil, err
	}

	parent.Children = append(parent.Children, created.ID)
	parent.UpdatedAt = now
	if _, err := s.repo.Update(ctx, parent); err != nil {
		return nil, err
	}

	return created, nil
}

// Get fetches a node scoped to the tenant.
func (s *service) Get(ctx context.Context, tenantID, id uuid.UUID) (*Node, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.repo.GetByID(ctx, tenantID, id)
}

// Chain returns the whole subtree rooted at rootID in post-order: every
// descendant precedes its parent and the root comes last. Deletion relies on
// this ordering so a parent is never removed ahead of its children.
func (s *service) Chain(ctx context.Context, tenantID, rootID uuid.UUID) ([]*Node, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}

	all, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*Node, len(all))
	for _, node := range all {
		byID[node.ID] = node
	}
	root, ok := byID[rootID]
	if !ok {
		return nil, &NotFoundError{Key: rootID.String()}
	}

	visited := make(map[uuid.UUID]struct{}, len(all))
	var chain []*Node

	var walk func(node *Node)
	walk = func(node *Node) {
		if _, seen := visited[node.ID]; seen {
			return
		}
		visited[node.ID] = struct{}{}
		for _, childID := range node.Children {
			if child, ok := byID[childID]; ok {
				walk(child)
			}
		}
		chain = append(chain, node)
	}
	walk(root)

	return chain, nil
}

// DeleteChain removes the whole subtree rooted at rootID. The chain is
// computed first and issued as a single bulk delete, so the store never holds
// a parent whose children are already gone; only whole-batch failure is
// possible and it surfaces to the caller.
func (s *service) DeleteChain(ctx context.Context, tenantID, rootID uuid.UUID) ([]uuid.UUID, error) {
	chain, err := s.Chain(ctx, tenantID, rootID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(chain))
	for i, node := range chain {
		ids[i] = node.ID
	}

	if err := s.repo.DeleteByIDs(ctx, tenantID, ids); err != nil {
		return nil, err
	}

	logging.WithFields(s.logger, map[string]any{
		"tenant_id": tenantID.String(),
		"root_id":   rootID.String(),
		"count":     len(ids),
	}).Debug("nodes.delete_chain")

	return ids, nil
}

// WouldRecurse walks the parent chain upward from parentID and reports
// whether any visited node is the candidate content itself.
func (s *service) WouldRecurse(ctx context.Context, tenantID, parentID, contentID uuid.UUID) (bool, error) {
	if tenantID == uuid.Nil {
		return false, ErrTenantRequired
	}

	all, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}
	byID := make(map[uuid.UUID]*Node, len(all))
	for _, node := range all {
		byID[node.ID] = node
	}

	visited := make(map[uuid.UUID]struct{})
	current := parentID
	for current != uuid.Nil {
		if current == contentID {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			// Corrupt parent loop; stop walking rather than spin.
			return false, nil
		}
		visited[current] = struct{}{}

		node, ok := byID[current]
		if !ok || node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}
	return false, nil
}
