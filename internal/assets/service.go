package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-kiosk/internal/logging"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

var (
	ErrTenantRequired = errors.New("assets: tenant id is required")
	ErrNameRequired   = errors.New("assets: name is required")
	ErrPathRequired   = errors.New("assets: storage path is required")
)

// NotFoundError reports a missing asset record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "asset not found"
	}
	return fmt.Sprintf("asset %q not found", e.Key)
}

// Repository abstracts storage of asset metadata.
type Repository interface {
	Create(ctx context.Context, record *Asset) (*Asset, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
}

// RegisterInput captures the metadata produced by the external upload intake.
type RegisterInput struct {
	TenantID uuid.UUID
	Name     string
	Ext      string
	Path     string
	Mipmap   Mipmap
	Active   bool
	Extra    map[string]any
}

// RegisterInputFromUpload adapts a file accepted by an upload intake into
// registry metadata for the owning tenant.
func RegisterInputFromUpload(tenantID uuid.UUID, upload interfaces.UploadResult) RegisterInput {
	return RegisterInput{
		TenantID: tenantID,
		Name:     upload.Name,
		Ext:      upload.Ext,
		Path:     upload.Path,
	}
}

// Service manages the asset registry and the physical cleanup of orphaned
// binaries.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Asset, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteBatch(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error)
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

type service struct {
	repo   Repository
	blobs  interfaces.BlobStore
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs an asset service. The blob store may be nil, in which
// case physical cleanup is skipped and only metadata records are removed.
func NewService(repo Repository, blobs interfaces.BlobStore, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		blobs:  blobs,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores the metadata for an uploaded binary.
func (s *service) Register(ctx context.Context, input RegisterInput) (*Asset, error) {
	if input.TenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Path) == "" {
		return nil, ErrPathRequired
	}

	now := s.now()
	record := &Asset{
		ID:          s.id(),
		TenantID:    input.TenantID,
		Active:      input.Active,
		Name:        name,
		Ext:         strings.TrimPrefix(strings.TrimSpace(input.Ext), "."),
		StoragePath: input.Path,
		Mipmap:      input.Mipmap,
		Extra:       input.Extra,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, record)
}

// Get fetches an asset record scoped to the tenant.
func (s *service) Get(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.repo.GetByID(ctx, tenantID, id)
}

// List returns all asset records owned by the tenant.
func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	return s.repo.ListByTenant(ctx, tenantID)
}

// Delete removes the asset record, then clears the original binary and both
// mipmaps from the blob store. Blob deletion is best-effort: the store
// tolerates missing files and a failed blob delete never resurrects the
// record.
func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}

	record, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return err
	}

	s.cleanupBlobs(ctx, record)

	logging.WithFields(s.logger, map[string]any{
		"tenant_id": tenantID.String(),
		"asset_id":  id.String(),
	}).Debug("assets.delete")

	return nil
}

// DeleteBatch deletes the given assets concurrently and reports how many were
// removed. Ids whose record is already gone are skipped without counting
// toward the total; cleanup sweeps routinely carry stale ids and must not
// abort on them. Deletions are independent: the first real failure
// propagates, but deletions that already completed stand. Callers bump the
// ASSETS reference version once when the returned count is positive.
func (s *service) DeleteBatch(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error) {
	if tenantID == uuid.Nil {
		return 0, ErrTenantRequired
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted atomic.Int64
	group, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		group.Go(func() error {
			if err := s.Delete(ctx, tenantID, id); err != nil {
				var notFound *NotFoundError
				if errors.As(err, &notFound) {
					return nil
				}
				return err
			}
			deleted.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(deleted.Load()), err
	}
	return int(deleted.Load()), nil
}

func (s *service) cleanupBlobs(ctx context.Context, record *Asset) {
	if s.blobs == nil || record == nil {
		return
	}
	for _, path := range []string{record.StoragePath, record.Mipmap.X128, record.Mipmap.X32} {
		if path == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, path); err != nil {
			logging.WithFields(s.logger, map[string]any{
				"path":  path,
				"error": err.Error(),
			}).Warn("assets.blob_cleanup_failed")
		}
	}
}
