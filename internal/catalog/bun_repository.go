package catalog

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

// BunProductRepository implements ProductRepository on top of go-repository-bun.
type BunProductRepository struct {
	repo repository.Repository[*Product]
}

// NewBunProductRepository creates a product repository without caching.
func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return NewBunProductRepositoryWithCache(db, nil, nil)
}

// NewBunProductRepositoryWithCache creates a product repository with optional caching.
func NewBunProductRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProductRepository {
	base := NewProductRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunProductRepository{repo: base}
}

func (r *BunProductRepository) Create(ctx context.Context, record *Product) (*Product, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("product", err, record.ID.String())
	}
	return created, nil
}

func (r *BunProductRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError("product", err, id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "product", Key: id.String()}
	}
	return records[0], nil
}

func (r *BunProductRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Product, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	return records, err
}

func (r *BunProductRepository) Update(ctx context.Context, record *Product) (*Product, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("product", err, record.ID.String())
	}
	return updated, nil
}

func (r *BunProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Product{ID: id}); err != nil {
		return mapRepositoryError("product", err, id.String())
	}
	return nil
}

// BunSelectorRepository implements SelectorRepository on top of go-repository-bun.
type BunSelectorRepository struct {
	repo repository.Repository[*Selector]
}

// NewBunSelectorRepository creates a selector repository without caching.
func NewBunSelectorRepository(db *bun.DB) *BunSelectorRepository {
	return NewBunSelectorRepositoryWithCache(db, nil, nil)
}

// NewBunSelectorRepositoryWithCache creates a selector repository with optional caching.
func NewBunSelectorRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSelectorRepository {
	base := NewSelectorRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunSelectorRepository{repo: base}
}

func (r *BunSelectorRepository) Create(ctx context.Context, record *Selector) (*Selector, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("selector", err, record.ID.String())
	}
	return created, nil
}

func (r *BunSelectorRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Selector, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError("selector", err, id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "selector", Key: id.String()}
	}
	return records[0], nil
}

func (r *BunSelectorRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Selector, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	return records, err
}

func (r *BunSelectorRepository) Update(ctx context.Context, record *Selector) (*Selector, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("selector", err, record.ID.String())
	}
	return updated, nil
}

func (r *BunSelectorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Selector{ID: id}); err != nil {
		return mapRepositoryError("selector", err, id.String())
	}
	return nil
}

// BunTagRepository implements TagRepository on top of go-repository-bun.
type BunTagRepository struct {
	repo repository.Repository[*Tag]
}

// NewBunTagRepository creates a tag repository without caching.
func NewBunTagRepository(db *bun.DB) *BunTagRepository {
	return NewBunTagRepositoryWithCache(db, nil, nil)
}

// NewBunTagRepositoryWithCache creates a tag repository with optional caching.
func NewBunTagRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTagRepository {
	base := NewTagRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunTagRepository{repo: base}
}

func (r *BunTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("tag", err, record.ID.String())
	}
	return created, nil
}

func (r *BunTagRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Tag, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError("tag", err, id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "tag", Key: id.String()}
	}
	return records[0], nil
}

func (r *BunTagRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Tag, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tenant_id = ?", tenantID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	return records, err
}

func (r *BunTagRepository) Update(ctx context.Context, record *Tag) (*Tag, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError("tag", err, record.ID.String())
	}
	return updated, nil
}

func (r *BunTagRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Tag{ID: id}); err != nil {
		return mapRepositoryError("tag", err, id.String())
	}
	return nil
}

func mapRepositoryError(resource string, err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("catalog repository error: %w", err)
}
