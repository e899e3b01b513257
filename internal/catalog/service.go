package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/contents"
	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/logging"
	"github.com/goliatone/go-kiosk/internal/nodes"
	"github.com/goliatone/go-kiosk/internal/ordering"
	"github.com/goliatone/go-kiosk/internal/refs"
	"github.com/goliatone/go-kiosk/internal/validation"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

var (
	// ErrTenantRequired indicates a zero tenant id.
	ErrTenantRequired = errors.New("catalog: tenant id is required")
	// ErrContentsRequired indicates a create call without localized contents.
	ErrContentsRequired = errors.New("catalog: localized contents are required")
	// ErrSlotRequired indicates a resource replacement without a slot name.
	ErrSlotRequired = errors.New("catalog: resource slot is required")
	// ErrLanguageRequired indicates a resource replacement without a language.
	ErrLanguageRequired = errors.New("catalog: language is required")
	// ErrAssetRequired indicates a resource replacement without an asset id.
	ErrAssetRequired = errors.New("catalog: asset id is required")
)

// NotFoundError reports a missing catalog record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: %s %q not found", e.Resource, e.Key)
}

// PartialFailureError reports an orchestration that persisted some of
// its steps before one failed. There is no rollback; the caller learns
// which step broke and can retry or repair from there.
type PartialFailureError struct {
	Op   string
	Step string
	Err  error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("catalog: %s failed at step %q: %v", e.Op, e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, record *Product) (*Product, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)
	Update(ctx context.Context, record *Product) (*Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SelectorRepository persists selectors.
type SelectorRepository interface {
	Create(ctx context.Context, record *Selector) (*Selector, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Selector, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Selector, error)
	Update(ctx context.Context, record *Selector) (*Selector, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, record *Tag) (*Tag, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Tag, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Tag, error)
	Update(ctx context.Context, record *Tag) (*Tag, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// EntityKind selects which catalog aggregate an operation targets.
type EntityKind string

const (
	KindProduct  EntityKind = "product"
	KindSelector EntityKind = "selector"
	KindTag      EntityKind = "tag"
)

// CreateProductInput carries everything needed to register a product.
type CreateProductInput struct {
	TenantID uuid.UUID
	Active   bool
	Position int
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// UpdateProductInput replaces a product's contents wholesale.
type UpdateProductInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Active   bool
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// CreateSelectorInput carries everything needed to register a selector.
type CreateSelectorInput struct {
	TenantID uuid.UUID
	Active   bool
	Position int
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// UpdateSelectorInput replaces a selector's contents wholesale.
type UpdateSelectorInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Active   bool
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// CreateTagInput carries everything needed to register a tag.
type CreateTagInput struct {
	TenantID uuid.UUID
	Active   bool
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// UpdateTagInput replaces a tag's contents wholesale.
type UpdateTagInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Active   bool
	Contents contents.LocalizedContents
	Extra    map[string]any
}

// ReplaceResourceInput swaps the asset occupying a single slot of one
// language block.
type ReplaceResourceInput struct {
	TenantID uuid.UUID
	Kind     EntityKind
	EntityID uuid.UUID
	Language string
	Slot     string
	AssetID  uuid.UUID
}

// Service orchestrates the catalog lifecycle: contents normalization,
// asset cleanup, node tree maintenance and reference version bumps.
// Steps execute in order without a surrounding transaction; a failure
// after the first persisted step surfaces as *PartialFailureError.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error
	GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)

	CreateSelector(ctx context.Context, input CreateSelectorInput) (*Selector, error)
	UpdateSelector(ctx context.Context, input UpdateSelectorInput) (*Selector, error)
	DeleteSelector(ctx context.Context, tenantID, id uuid.UUID) error
	GetSelector(ctx context.Context, tenantID, id uuid.UUID) (*Selector, error)
	ListSelectors(ctx context.Context, tenantID uuid.UUID) ([]*Selector, error)

	CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error)
	UpdateTag(ctx context.Context, input UpdateTagInput) (*Tag, error)
	DeleteTag(ctx context.Context, tenantID, id uuid.UUID) error
	GetTag(ctx context.Context, tenantID, id uuid.UUID) (*Tag, error)
	ListTags(ctx context.Context, tenantID uuid.UUID) ([]*Tag, error)

	ReplaceResource(ctx context.Context, input ReplaceResourceInput) error
	ReorderProducts(ctx context.Context, tenantID uuid.UUID, placements []ordering.Placement) error
	ReorderSelectors(ctx context.Context, tenantID uuid.UUID, placements []ordering.Placement) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = clock
	}
}

// WithIDGenerator overrides record id generation.
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

// WithDefaultLanguage sets the language whose content block seeds the
// normalization fallback chain.
func WithDefaultLanguage(language string) ServiceOption {
	return func(s *service) {
		if language != "" {
			s.defaultLanguage = language
		}
	}
}

// WithExtraSchema registers a JSON schema validated against the Extra
// payload of one entity kind on create and update.
func WithExtraSchema(kind EntityKind, schema map[string]any) ServiceOption {
	return func(s *service) {
		if s.extraSchemas == nil {
			s.extraSchemas = map[EntityKind]map[string]any{}
		}
		s.extraSchemas[kind] = schema
	}
}

type service struct {
	products  ProductRepository
	selectors SelectorRepository
	tags      TagRepository
	nodes     nodes.Service
	assets    assets.Service
	refs      refs.Service

	defaultLanguage string
	extraSchemas    map[EntityKind]map[string]any
	now             func() time.Time
	id              func() uuid.UUID
	logger          interfaces.Logger
}

// Deps bundles the collaborating services the catalog drives.
type Deps struct {
	Products  ProductRepository
	Selectors SelectorRepository
	Tags      TagRepository
	Nodes     nodes.Service
	Assets    assets.Service
	Refs      refs.Service
}

// NewService constructs the catalog orchestration service.
func NewService(deps Deps, opts ...ServiceOption) Service {
	s := &service{
		products:        deps.Products,
		selectors:       deps.Selectors,
		tags:            deps.Tags,
		nodes:           deps.Nodes,
		assets:          deps.Assets,
		refs:            deps.Refs,
		defaultLanguage: "en",
		now:             time.Now,
		id:              uuid.New,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if len(input.Contents) == 0 {
		return nil, ErrContentsRequired
	}
	if err := s.validateExtra(KindProduct, input.Extra); err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	now := s.now()
	record := &Product{
		ID:        s.id(),
		TenantID:  input.TenantID,
		Active:    input.Active,
		Position:  input.Position,
		Contents:  localized,
		Extra:     input.Extra,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.products.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	joint, err := s.nodes.CreateJoint(ctx, nodes.CreateJointInput{
		TenantID:  input.TenantID,
		Type:      domain.NodeProductJoint,
		ContentID: created.ID,
	})
	if err != nil {
		return created, s.partial("CreateProduct", "create joint node", err)
	}
	created.JointNodeID = &joint.ID
	created.UpdatedAt = s.now()
	if created, err = s.products.Update(ctx, created); err != nil {
		return created, s.partial("CreateProduct", "link joint node", err)
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceNodes); err != nil {
		return created, s.partial("CreateProduct", "bump nodes ref", err)
	}
	if err := s.bump(ctx, input.TenantID, domain.ResourceProducts); err != nil {
		return created, s.partial("CreateProduct", "bump products ref", err)
	}

	logging.WithTenant(s.logger, input.TenantID.String()).Info("product created", "product_id", created.ID)
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*Product, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if input.Extra != nil {
		if err := s.validateExtra(KindProduct, input.Extra); err != nil {
			return nil, err
		}
	}
	existing, err := s.products.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	if err := s.purgeOrphans(ctx, input.TenantID, existing.Contents, localized); err != nil {
		return nil, s.partial("UpdateProduct", "delete orphaned assets", err)
	}

	existing.Active = input.Active
	existing.Contents = localized
	if input.Extra != nil {
		existing.Extra = input.Extra
	}
	existing.UpdatedAt = s.now()
	updated, err := s.products.Update(ctx, existing)
	if err != nil {
		return nil, s.partial("UpdateProduct", "persist record", err)
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceProducts); err != nil {
		return updated, s.partial("UpdateProduct", "bump products ref", err)
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	record, err := s.products.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.purgeOwnedAssets(ctx, tenantID, record.Contents); err != nil {
		return s.partial("DeleteProduct", "delete owned assets", err)
	}

	if record.JointNodeID != nil {
		if err := s.deleteJointChain(ctx, tenantID, *record.JointNodeID); err != nil {
			return s.partial("DeleteProduct", "delete node chain", err)
		}
	}

	if err := s.renumberProducts(ctx, tenantID); err != nil {
		return s.partial("DeleteProduct", "renumber positions", err)
	}

	if err := s.bump(ctx, tenantID, domain.ResourceProducts); err != nil {
		return s.partial("DeleteProduct", "bump products ref", err)
	}

	logging.WithTenant(s.logger, tenantID.String()).Info("product deleted", "product_id", id)
	return nil
}

func (s *service) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.products.GetByID(ctx, tenantID, id)
}

func (s *service) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.products.ListByTenant(ctx, tenantID)
}

func (s *service) CreateSelector(ctx context.Context, input CreateSelectorInput) (*Selector, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if len(input.Contents) == 0 {
		return nil, ErrContentsRequired
	}
	if err := s.validateExtra(KindSelector, input.Extra); err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	now := s.now()
	record := &Selector{
		ID:        s.id(),
		TenantID:  input.TenantID,
		Active:    input.Active,
		Position:  input.Position,
		Contents:  localized,
		Extra:     input.Extra,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.selectors.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	joint, err := s.nodes.CreateJoint(ctx, nodes.CreateJointInput{
		TenantID:  input.TenantID,
		Type:      domain.NodeSelectorJoint,
		ContentID: created.ID,
	})
	if err != nil {
		return created, s.partial("CreateSelector", "create joint node", err)
	}
	created.JointNodeID = &joint.ID
	created.UpdatedAt = s.now()
	if created, err = s.selectors.Update(ctx, created); err != nil {
		return created, s.partial("CreateSelector", "link joint node", err)
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceNodes); err != nil {
		return created, s.partial("CreateSelector", "bump nodes ref", err)
	}
	if err := s.bump(ctx, input.TenantID, domain.ResourceSelectors); err != nil {
		return created, s.partial("CreateSelector", "bump selectors ref", err)
	}

	logging.WithTenant(s.logger, input.TenantID.String()).Info("selector created", "selector_id", created.ID)
	return created, nil
}

func (s *service) UpdateSelector(ctx context.Context, input UpdateSelectorInput) (*Selector, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if input.Extra != nil {
		if err := s.validateExtra(KindSelector, input.Extra); err != nil {
			return nil, err
		}
	}
	existing, err := s.selectors.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	if err := s.purgeOrphans(ctx, input.TenantID, existing.Contents, localized); err != nil {
		return nil, s.partial("UpdateSelector", "delete orphaned assets", err)
	}

	existing.Active = input.Active
	existing.Contents = localized
	if input.Extra != nil {
		existing.Extra = input.Extra
	}
	existing.UpdatedAt = s.now()
	updated, err := s.selectors.Update(ctx, existing)
	if err != nil {
		return nil, s.partial("UpdateSelector", "persist record", err)
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceSelectors); err != nil {
		return updated, s.partial("UpdateSelector", "bump selectors ref", err)
	}
	return updated, nil
}

func (s *service) DeleteSelector(ctx context.Context, tenantID, id uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	record, err := s.selectors.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.selectors.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.purgeOwnedAssets(ctx, tenantID, record.Contents); err != nil {
		return s.partial("DeleteSelector", "delete owned assets", err)
	}

	if record.JointNodeID != nil {
		if err := s.deleteJointChain(ctx, tenantID, *record.JointNodeID); err != nil {
			return s.partial("DeleteSelector", "delete node chain", err)
		}
	}

	if err := s.renumberSelectors(ctx, tenantID); err != nil {
		return s.partial("DeleteSelector", "renumber positions", err)
	}

	if err := s.bump(ctx, tenantID, domain.ResourceSelectors); err != nil {
		return s.partial("DeleteSelector", "bump selectors ref", err)
	}

	logging.WithTenant(s.logger, tenantID.String()).Info("selector deleted", "selector_id", id)
	return nil
}

func (s *service) GetSelector(ctx context.Context, tenantID, id uuid.UUID) (*Selector, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.selectors.GetByID(ctx, tenantID, id)
}

func (s *service) ListSelectors(ctx context.Context, tenantID uuid.UUID) ([]*Selector, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.selectors.ListByTenant(ctx, tenantID)
}

func (s *service) CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if len(input.Contents) == 0 {
		return nil, ErrContentsRequired
	}
	if err := s.validateExtra(KindTag, input.Extra); err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	now := s.now()
	record := &Tag{
		ID:        s.id(),
		TenantID:  input.TenantID,
		Active:    input.Active,
		Contents:  localized,
		Extra:     input.Extra,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.tags.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceTags); err != nil {
		return created, s.partial("CreateTag", "bump tags ref", err)
	}
	return created, nil
}

func (s *service) UpdateTag(ctx context.Context, input UpdateTagInput) (*Tag, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if input.Extra != nil {
		if err := s.validateExtra(KindTag, input.Extra); err != nil {
			return nil, err
		}
	}
	existing, err := s.tags.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	localized := input.Contents.Clone()
	contents.Normalize(localized, s.defaultLanguage)
	contents.EnsureAssetLinks(localized)

	if err := s.purgeOrphans(ctx, input.TenantID, existing.Contents, localized); err != nil {
		return nil, s.partial("UpdateTag", "delete orphaned assets", err)
	}

	existing.Active = input.Active
	existing.Contents = localized
	if input.Extra != nil {
		existing.Extra = input.Extra
	}
	existing.UpdatedAt = s.now()
	updated, err := s.tags.Update(ctx, existing)
	if err != nil {
		return nil, s.partial("UpdateTag", "persist record", err)
	}

	if err := s.bump(ctx, input.TenantID, domain.ResourceTags); err != nil {
		return updated, s.partial("UpdateTag", "bump tags ref", err)
	}
	return updated, nil
}

func (s *service) DeleteTag(ctx context.Context, tenantID, id uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	record, err := s.tags.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.tags.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.purgeOwnedAssets(ctx, tenantID, record.Contents); err != nil {
		return s.partial("DeleteTag", "delete owned assets", err)
	}

	if err := s.bump(ctx, tenantID, domain.ResourceTags); err != nil {
		return s.partial("DeleteTag", "bump tags ref", err)
	}
	return nil
}

func (s *service) GetTag(ctx context.Context, tenantID, id uuid.UUID) (*Tag, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.tags.GetByID(ctx, tenantID, id)
}

func (s *service) ListTags(ctx context.Context, tenantID uuid.UUID) ([]*Tag, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.tags.ListByTenant(ctx, tenantID)
}

// ReplaceResource swaps the asset occupying one slot. The displaced
// asset is physically deleted only when that slot held its last
// reference across every language; shared assets survive.
func (s *service) ReplaceResource(ctx context.Context, input ReplaceResourceInput) error {
	if input.TenantID == uuid.Nil {
		return ErrTenantRequired
	}
	if input.Language == "" {
		return ErrLanguageRequired
	}
	if input.Slot == "" {
		return ErrSlotRequired
	}
	if input.AssetID == uuid.Nil {
		return ErrAssetRequired
	}

	localized, persist, refName, err := s.loadContents(ctx, input.TenantID, input.Kind, input.EntityID)
	if err != nil {
		return err
	}

	block, ok := localized[input.Language]
	if !ok || block == nil {
		block = &contents.ContentBlock{}
		localized[input.Language] = block
	}
	if block.Resources == nil {
		block.Resources = map[string]uuid.UUID{}
	}

	displaced := block.Resources[input.Slot]
	deleted := false
	if displaced != uuid.Nil && displaced != input.AssetID {
		if contents.ResourceReferenceCount(localized, displaced) == 1 {
			if err := s.assets.Delete(ctx, input.TenantID, displaced); err != nil {
				return s.partial("ReplaceResource", "delete displaced asset", err)
			}
			contents.RemoveAsset(localized, displaced)
			deleted = true
		}
	}

	block.Resources[input.Slot] = input.AssetID
	if !containsID(block.Assets, input.AssetID) {
		block.Assets = append(block.Assets, input.AssetID)
	}

	if err := persist(ctx, localized); err != nil {
		return s.partial("ReplaceResource", "persist record", err)
	}

	if deleted {
		if err := s.bump(ctx, input.TenantID, domain.ResourceAssets); err != nil {
			return s.partial("ReplaceResource", "bump assets ref", err)
		}
	}
	if err := s.bump(ctx, input.TenantID, refName); err != nil {
		return s.partial("ReplaceResource", "bump entity ref", err)
	}
	return nil
}

// ReorderProducts applies the caller's positions verbatim. The caller
// owns the layout; gaps and duplicates are not repaired here.
func (s *service) ReorderProducts(ctx context.Context, tenantID uuid.UUID, placements []ordering.Placement) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	now := s.now()
	for _, placement := range placements {
		record, err := s.products.GetByID(ctx, tenantID, placement.ID)
		if err != nil {
			return err
		}
		if record.Position == placement.Position {
			continue
		}
		record.Position = placement.Position
		record.UpdatedAt = now
		if _, err := s.products.Update(ctx, record); err != nil {
			return s.partial("ReorderProducts", "persist position", err)
		}
	}
	if len(placements) > 0 {
		if err := s.bump(ctx, tenantID, domain.ResourceProducts); err != nil {
			return s.partial("ReorderProducts", "bump products ref", err)
		}
	}
	return nil
}

// ReorderSelectors applies the caller's positions verbatim.
func (s *service) ReorderSelectors(ctx context.Context, tenantID uuid.UUID, placements []ordering.Placement) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	now := s.now()
	for _, placement := range placements {
		record, err := s.selectors.GetByID(ctx, tenantID, placement.ID)
		if err != nil {
			return err
		}
		if record.Position == placement.Position {
			continue
		}
		record.Position = placement.Position
		record.UpdatedAt = now
		if _, err := s.selectors.Update(ctx, record); err != nil {
			return s.partial("ReorderSelectors", "persist position", err)
		}
	}
	if len(placements) > 0 {
		if err := s.bump(ctx, tenantID, domain.ResourceSelectors); err != nil {
			return s.partial("ReorderSelectors", "bump selectors ref", err)
		}
	}
	return nil
}

// loadContents resolves the target entity and returns its contents
// along with a closure that persists a mutated copy back.
func (s *service) loadContents(ctx context.Context, tenantID uuid.UUID, kind EntityKind, id uuid.UUID) (contents.LocalizedContents, func(context.Context, contents.LocalizedContents) error, domain.ResourceType, error) {
	switch kind {
	case KindProduct:
		record, err := s.products.GetByID(ctx, tenantID, id)
		if err != nil {
			return nil, nil, "", err
		}
		persist := func(ctx context.Context, localized contents.LocalizedContents) error {
			record.Contents = localized
			record.UpdatedAt = s.now()
			_, err := s.products.Update(ctx, record)
			return err
		}
		return record.Contents.Clone(), persist, domain.ResourceProducts, nil
	case KindSelector:
		record, err := s.selectors.GetByID(ctx, tenantID, id)
		if err != nil {
			return nil, nil, "", err
		}
		persist := func(ctx context.Context, localized contents.LocalizedContents) error {
			record.Contents = localized
			record.UpdatedAt = s.now()
			_, err := s.selectors.Update(ctx, record)
			return err
		}
		return record.Contents.Clone(), persist, domain.ResourceSelectors, nil
	case KindTag:
		record, err := s.tags.GetByID(ctx, tenantID, id)
		if err != nil {
			return nil, nil, "", err
		}
		persist := func(ctx context.Context, localized contents.LocalizedContents) error {
			record.Contents = localized
			record.UpdatedAt = s.now()
			_, err := s.tags.Update(ctx, record)
			return err
		}
		return record.Contents.Clone(), persist, domain.ResourceTags, nil
	default:
		return nil, nil, "", &NotFoundError{Resource: "entity kind", Key: string(kind)}
	}
}

// purgeOrphans deletes assets referenced by last but absent from next,
// bumping the assets ref once iff anything was physically removed. Deleted
// ids are stripped from next's link lists before the caller persists it so
// no language keeps a reference to a record that no longer exists.
func (s *service) purgeOrphans(ctx context.Context, tenantID uuid.UUID, last, next contents.LocalizedContents) error {
	orphans := dedupeIDs(contents.DeletedAssetsFromDifference(last, next))
	if len(orphans) == 0 {
		return nil
	}
	deleted, err := s.assets.DeleteBatch(ctx, tenantID, orphans)
	if err != nil {
		return err
	}
	for _, id := range orphans {
		contents.RemoveAsset(next, id)
	}
	if deleted > 0 {
		return s.bump(ctx, tenantID, domain.ResourceAssets)
	}
	return nil
}

// purgeOwnedAssets removes every asset a deleted entity owned: the
// slot-referenced ids plus the Assets and Gallery link lists.
func (s *service) purgeOwnedAssets(ctx context.Context, tenantID uuid.UUID, localized contents.LocalizedContents) error {
	owned := contents.DeletedAssetsFromDifference(localized, nil)
	for _, block := range localized {
		if block == nil {
			continue
		}
		owned = append(owned, block.Assets...)
		owned = append(owned, block.Gallery...)
	}
	owned = dedupeIDs(owned)
	if len(owned) == 0 {
		return nil
	}
	deleted, err := s.assets.DeleteBatch(ctx, tenantID, owned)
	if err != nil {
		return err
	}
	if deleted > 0 {
		return s.bump(ctx, tenantID, domain.ResourceAssets)
	}
	return nil
}

// deleteJointChain removes the entity's node subtree and bumps the
// nodes ref when anything was removed. A joint that is already gone is
// not an error; the record deletion already happened.
func (s *service) deleteJointChain(ctx context.Context, tenantID, jointID uuid.UUID) error {
	removed, err := s.nodes.DeleteChain(ctx, tenantID, jointID)
	if err != nil {
		var notFound *nodes.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if len(removed) > 0 {
		return s.bump(ctx, tenantID, domain.ResourceNodes)
	}
	return nil
}

func (s *service) renumberProducts(ctx context.Context, tenantID uuid.UUID) error {
	records, err := s.products.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	positioned := make([]ordering.Positioned, len(records))
	byID := make(map[uuid.UUID]*Product, len(records))
	for i, record := range records {
		positioned[i] = ordering.Positioned{ID: record.ID, Position: record.Position}
		byID[record.ID] = record
	}
	now := s.now()
	for _, placement := range ordering.Renumber(positioned) {
		record := byID[placement.ID]
		record.Position = placement.Position
		record.UpdatedAt = now
		if _, err := s.products.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) renumberSelectors(ctx context.Context, tenantID uuid.UUID) error {
	records, err := s.selectors.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	positioned := make([]ordering.Positioned, len(records))
	byID := make(map[uuid.UUID]*Selector, len(records))
	for i, record := range records {
		positioned[i] = ordering.Positioned{ID: record.ID, Position: record.Position}
		byID[record.ID] = record
	}
	now := s.now()
	for _, placement := range ordering.Renumber(positioned) {
		record := byID[placement.ID]
		record.Position = placement.Position
		record.UpdatedAt = now
		if _, err := s.selectors.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) validateExtra(kind EntityKind, extra map[string]any) error {
	schema, ok := s.extraSchemas[kind]
	if !ok {
		return nil
	}
	return validation.ValidatePayload(schema, extra)
}

func (s *service) bump(ctx context.Context, tenantID uuid.UUID, name domain.ResourceType) error {
	_, err := s.refs.Bump(ctx, refs.Key{TenantID: tenantID, Name: name})
	return err
}

func (s *service) partial(op, step string, err error) error {
	s.logger.Error("catalog step failed", "op", op, "step", step, "error", err)
	return &PartialFailureError{Op: op, Step: step, Err: err}
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
