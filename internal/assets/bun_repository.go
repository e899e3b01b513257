package assets

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on top of go-repository-bun.
type BunRepository struct {
	repo repository.Repository[*Asset]
}

// NewBunRepository creates an asset repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an asset repository with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewAssetRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Asset) (*Asset, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	record, err := r.getScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	record, err := r.getScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Delete(ctx, &Asset{ID: id}); err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

// getScoped fetches by id and enforces the tenant filter in the query rather
// than post-filtering, so cross-tenant ids read as absent.
func (r *BunRepository) getScoped(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: id.String()}
	}
	return records[0], nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("assets repository error: %w", err)
}
