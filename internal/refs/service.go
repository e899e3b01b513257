package refs

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
	ErrTenantRequired = errors.New("refs: tenant id is required")
	ErrNameRequired   = errors.New("refs: resource type name is required")
)

// NotFoundError reports a missing reference record during an increment. The
// increment path never lazily creates records; a tenant must be bootstrapped
// before its counters can be bumped.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	if e.Key.Discriminator != nil {
		return fmt.Sprintf("refs: ref %s/%s not found for tenant %s", e.Key.Name, *e.Key.Discriminator, e.Key.TenantID)
	}
	return fmt.Sprintf("refs: ref %s not found for tenant %s", e.Key.Name, e.Key.TenantID)
}

// Repository abstracts storage for reference records.
type Repository interface {
	Get(ctx context.Context, key Key) (*Ref, error)
	Create(ctx context.Context, record *Ref) (*Ref, error)
	Update(ctx context.Context, record *Ref) (*Ref, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Ref, error)
}

// Service exposes the reference version protocol.
//
// Get is a read: it creates the record lazily at version 1 but a read never
// counts as a version bump. Bump is the single mechanism that informs
// terminals a resource family changed.
type Service interface {
	Get(ctx context.Context, key Key) (*Ref, error)
	Bump(ctx context.Context, key Key) (*Ref, error)
	EnsureTenant(ctx context.Context, tenantID uuid.UUID) ([]*Ref, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Ref, error)
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

// WithThemeDiscriminators configures the terminal types seeded with
// discriminator-scoped theme records during tenant bootstrap.
func WithThemeDiscriminators(discriminators []string) ServiceOption {
	return func(s *service) {
		s.themeDiscriminators = append([]string(nil), discriminators...)
	}
}

type service struct {
	repo                Repository
	now                 func() time.Time
	id                  func() uuid.UUID
	logger              interfaces.Logger
	themeDiscriminators []string
}

// NewService constructs a reference version service.
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

// Get returns the reference record for the key, creating it at version 1
// when absent. The name is folded to its canonical upper-case form before
// any lookup so callers can pass whichever casing their transport delivers.
func (s *service) Get(ctx context.Context, key Key) (*Ref, error) {
	key.Name = domain.NormalizeResourceType(string(key.Name))
	if err := validateKey(key); err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, key)
	if err == nil {
		return record, nil
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &Ref{
		ID:            s.id(),
		TenantID:      key.TenantID,
		Name:          key.Name,
		Version:       1,
		LastUpdate:    now,
		Discriminator: cloneStringPtr(key.Discriminator),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Bump increments the version counter for the key. The record must already
// exist: tenants are seeded by EnsureTenant and an increment against an
// unseeded key fails with *NotFoundError rather than silently creating state.
//
// The read-modify-write here is not protected by a compare-and-swap, so
// concurrent bumps of the same key can lose increments. Callers only ever
// observe the version moving up.
func (s *service) Bump(ctx context.Context, key Key) (*Ref, error) {
	key.Name = domain.NormalizeResourceType(string(key.Name))
	if err := validateKey(key); err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	record.Version++
	record.LastUpdate = s.now()
	record.UpdatedAt = record.LastUpdate

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	logging.WithFields(s.logger, map[string]any{
		"tenant_id": key.TenantID.String(),
		"name":      string(key.Name),
		"version":   updated.Version,
	}).Debug("refs.bump")

	return updated, nil
}

// EnsureTenant seeds one reference record per resource family for the tenant,
// plus discriminator-scoped theme records for each configured terminal type.
// Existing records are left untouched.
func (s *service) EnsureTenant(ctx context.Context, tenantID uuid.UUID) ([]*Ref, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}

	keys := make([]Key, 0, len(domain.ResourceTypes())+len(s.themeDiscriminators))
	for _, name := range domain.ResourceTypes() {
		keys = append(keys, Key{TenantID: tenantID, Name: name})
	}
	for _, discriminator := range s.themeDiscriminators {
		d := discriminator
		keys = append(keys, Key{TenantID: tenantID, Name: domain.ResourceThemes, Discriminator: &d})
	}

	out := make([]*Ref, 0, len(keys))
	for _, key := range keys {
		record, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// ListByTenant returns every reference record owned by the tenant.
func (s *service) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Ref, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.repo.ListByTenant(ctx, tenantID)
}

func validateKey(key Key) error {
	if key.TenantID == uuid.Nil {
		return ErrTenantRequired
	}
	if key.Name == "" {
		return ErrNameRequired
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
