package kiosk

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/catalog"
	"github.com/goliatone/go-kiosk/internal/commands/assetcmd"
	"github.com/goliatone/go-kiosk/internal/logging"
	"github.com/goliatone/go-kiosk/internal/logging/gologger"
	"github.com/goliatone/go-kiosk/internal/nodes"
	"github.com/goliatone/go-kiosk/internal/refs"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

// CatalogService exports the catalog orchestration contract for consumers of the kiosk package.
type CatalogService = catalog.Service

// NodeService exports the node tree service contract.
type NodeService = nodes.Service

// AssetService exports the asset registry service contract.
type AssetService = assets.Service

// RefService exports the reference version service contract.
type RefService = refs.Service

// EntityKind selects which catalog aggregate an operation targets.
type EntityKind = catalog.EntityKind

const (
	KindProduct  = catalog.KindProduct
	KindSelector = catalog.KindSelector
	KindTag      = catalog.KindTag
)

// Kiosk is the top level runtime facade. It wires in-memory
// repositories by default and bun repositories when a database is
// supplied.
type Kiosk struct {
	cfg Config

	db            *bun.DB
	cacheService  interfaces.CacheService
	keySerializer interfaces.KeySerializer
	provider      interfaces.LoggerProvider
	blobs         interfaces.BlobStore
	extraSchemas  map[catalog.EntityKind]map[string]any

	refSvc     refs.Service
	assetSvc   assets.Service
	nodeSvc    nodes.Service
	catalogSvc catalog.Service

	cleanupHandler *assetcmd.CleanupAssetsHandler
}

// New constructs a kiosk module using the provided configuration and options.
func New(cfg Config, opts ...Option) (*Kiosk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	k := &Kiosk{cfg: cfg}
	for _, opt := range opts {
		opt(k)
	}

	if k.provider == nil {
		provider, err := defaultProvider(cfg)
		if err != nil {
			return nil, err
		}
		k.provider = provider
	}
	if k.blobs == nil {
		k.blobs = discardBlobStore{}
	}

	k.configureServices()
	return k, nil
}

func defaultProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}
	return gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Focus:     cfg.Logging.Focus,
	})
}

func (k *Kiosk) configureServices() {
	refRepo := k.refRepository()
	refOpts := []refs.ServiceOption{
		refs.WithLogger(logging.RefsLogger(k.provider)),
	}
	if len(k.cfg.Tenancy.ThemeDiscriminators) > 0 {
		refOpts = append(refOpts, refs.WithThemeDiscriminators(k.cfg.Tenancy.ThemeDiscriminators))
	}
	k.refSvc = refs.NewService(refRepo, refOpts...)

	k.assetSvc = assets.NewService(k.assetRepository(), k.blobs,
		assets.WithLogger(logging.AssetsLogger(k.provider)),
	)

	k.nodeSvc = nodes.NewService(k.nodeRepository(),
		nodes.WithLogger(logging.NodesLogger(k.provider)),
	)

	catalogOpts := []catalog.ServiceOption{
		catalog.WithDefaultLanguage(k.cfg.DefaultLanguage),
		catalog.WithLogger(logging.CatalogLogger(k.provider)),
	}
	for kind, schema := range k.extraSchemas {
		catalogOpts = append(catalogOpts, catalog.WithExtraSchema(kind, schema))
	}
	k.catalogSvc = catalog.NewService(catalog.Deps{
		Products:  k.productRepository(),
		Selectors: k.selectorRepository(),
		Tags:      k.tagRepository(),
		Nodes:     k.nodeSvc,
		Assets:    k.assetSvc,
		Refs:      k.refSvc,
	}, catalogOpts...)

	k.cleanupHandler = assetcmd.NewCleanupAssetsHandler(
		k.assetSvc,
		k.refSvc,
		logging.AssetsLogger(k.provider),
	)
}

func (k *Kiosk) refRepository() refs.Repository {
	if k.db == nil {
		return refs.NewMemoryRepository()
	}
	if k.cacheEnabled() {
		return refs.NewBunRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return refs.NewBunRepository(k.db)
}

func (k *Kiosk) assetRepository() assets.Repository {
	if k.db == nil {
		return assets.NewMemoryRepository()
	}
	if k.cacheEnabled() {
		return assets.NewBunRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return assets.NewBunRepository(k.db)
}

func (k *Kiosk) nodeRepository() nodes.Repository {
	if k.db == nil {
		return nodes.NewMemoryRepository()
	}
	if k.cacheEnabled() {
		return nodes.NewBunRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return nodes.NewBunRepository(k.db)
}

func (k *Kiosk) productRepository() catalog.ProductRepository {
	if k.db == nil {
		return catalog.NewMemoryProductRepository()
	}
	if k.cacheEnabled() {
		return catalog.NewBunProductRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return catalog.NewBunProductRepository(k.db)
}

func (k *Kiosk) selectorRepository() catalog.SelectorRepository {
	if k.db == nil {
		return catalog.NewMemorySelectorRepository()
	}
	if k.cacheEnabled() {
		return catalog.NewBunSelectorRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return catalog.NewBunSelectorRepository(k.db)
}

func (k *Kiosk) tagRepository() catalog.TagRepository {
	if k.db == nil {
		return catalog.NewMemoryTagRepository()
	}
	if k.cacheEnabled() {
		return catalog.NewBunTagRepositoryWithCache(k.db, k.cacheService, k.keySerializer)
	}
	return catalog.NewBunTagRepository(k.db)
}

func (k *Kiosk) cacheEnabled() bool {
	return k.cfg.Cache.Enabled && k.cacheService != nil && k.keySerializer != nil
}

// Catalog returns the configured catalog orchestration service.
func (k *Kiosk) Catalog() CatalogService {
	return k.catalogSvc
}

// Nodes returns the configured node tree service.
func (k *Kiosk) Nodes() NodeService {
	return k.nodeSvc
}

// Assets returns the configured asset registry service.
func (k *Kiosk) Assets() AssetService {
	return k.assetSvc
}

// Refs returns the configured reference version service.
func (k *Kiosk) Refs() RefService {
	return k.refSvc
}

// CleanupAssets returns the command handler for the orphan sweep.
func (k *Kiosk) CleanupAssets() *assetcmd.CleanupAssetsHandler {
	return k.cleanupHandler
}

// BootstrapTenant seeds the reference counters a new tenant needs.
func (k *Kiosk) BootstrapTenant(ctx context.Context, tenantID uuid.UUID) error {
	_, err := k.refSvc.EnsureTenant(ctx, tenantID)
	return err
}

// discardBlobStore is the default blob backend: registry records manage
// metadata while binaries live wherever the host put them.
type discardBlobStore struct{}

func (discardBlobStore) Delete(context.Context, string) error { return nil }
