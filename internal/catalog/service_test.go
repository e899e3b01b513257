package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/catalog"
	"github.com/goliatone/go-kiosk/internal/contents"
	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/nodes"
	"github.com/goliatone/go-kiosk/internal/ordering"
	"github.com/goliatone/go-kiosk/internal/refs"
	"github.com/goliatone/go-kiosk/internal/validation"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-00000000dd01")

type discardBlobStore struct{}

func (discardBlobStore) Delete(context.Context, string) error { return nil }

type fixture struct {
	catalog catalog.Service
	nodes   nodes.Service
	assets  assets.Service
	refs    refs.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	nodeSvc := nodes.NewService(nodes.NewMemoryRepository(), nodes.WithClock(clock))
	assetSvc := assets.NewService(assets.NewMemoryRepository(), discardBlobStore{}, assets.WithClock(clock))
	refSvc := refs.NewService(refs.NewMemoryRepository(), refs.WithClock(clock))

	if _, err := refSvc.EnsureTenant(context.Background(), testTenant); err != nil {
		t.Fatalf("EnsureTenant: %v", err)
	}

	svc := catalog.NewService(catalog.Deps{
		Products:  catalog.NewMemoryProductRepository(),
		Selectors: catalog.NewMemorySelectorRepository(),
		Tags:      catalog.NewMemoryTagRepository(),
		Nodes:     nodeSvc,
		Assets:    assetSvc,
		Refs:      refSvc,
	}, catalog.WithClock(clock))

	return &fixture{catalog: svc, nodes: nodeSvc, assets: assetSvc, refs: refSvc}
}

func (f *fixture) registerAsset(t *testing.T) *assets.Asset {
	t.Helper()
	asset, err := f.assets.Register(context.Background(), assets.RegisterInput{
		TenantID: testTenant,
		Name:     "banner",
		Ext:      "png",
		Path:     "tenants/dd01/banner.png",
		Active:   true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return asset
}

func (f *fixture) refVersion(t *testing.T, name domain.ResourceType) int {
	t.Helper()
	ref, err := f.refs.Get(context.Background(), refs.Key{TenantID: testTenant, Name: name})
	if err != nil {
		t.Fatalf("refs.Get %s: %v", name, err)
	}
	return ref.Version
}

func simpleContents(name string) contents.LocalizedContents {
	return contents.LocalizedContents{
		"en": {Name: name},
	}
}

func TestService_CreateProduct_LinksJointAndBumpsRefs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	productsBefore := f.refVersion(t, domain.ResourceProducts)
	nodesBefore := f.refVersion(t, domain.ResourceNodes)

	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Active:   true,
		Contents: simpleContents("espresso"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if product.JointNodeID == nil {
		t.Fatal("product must link its joint node")
	}
	joint, err := f.nodes.Get(ctx, testTenant, *product.JointNodeID)
	if err != nil {
		t.Fatalf("joint node lookup: %v", err)
	}
	if joint.Type != domain.NodeProductJoint {
		t.Fatalf("expected PRODUCT_JOINT, got %s", joint.Type)
	}
	if joint.ContentID != product.ID {
		t.Fatalf("joint must anchor the product, got %s", joint.ContentID)
	}

	if got := f.refVersion(t, domain.ResourceProducts); got != productsBefore+1 {
		t.Fatalf("products ref: expected %d, got %d", productsBefore+1, got)
	}
	if got := f.refVersion(t, domain.ResourceNodes); got != nodesBefore+1 {
		t.Fatalf("nodes ref: expected %d, got %d", nodesBefore+1, got)
	}
}

func TestService_CreateProduct_NormalizesContents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asset := f.registerAsset(t)

	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: asset.ID},
			},
			"de": {Name: "Espresso"},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	de := product.Contents["de"]
	if de == nil || de.Resources[contents.SlotMain] != asset.ID {
		t.Fatalf("german main slot must inherit the default asset, got %+v", de)
	}
}

func TestService_UpdateProduct_DeletesOrphanedAssets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keep := f.registerAsset(t)
	drop, err := f.assets.Register(ctx, assets.RegisterInput{
		TenantID: testTenant, Name: "old", Ext: "jpg", Path: "tenants/dd01/old.jpg",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name: "espresso",
				Resources: map[string]uuid.UUID{
					contents.SlotMain: keep.ID,
					"detail":          drop.ID,
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	assetsBefore := f.refVersion(t, domain.ResourceAssets)

	if _, err := f.catalog.UpdateProduct(ctx, catalog.UpdateProductInput{
		TenantID: testTenant,
		ID:       product.ID,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: keep.ID},
			},
		},
	}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	var notFound *assets.NotFoundError
	if _, err := f.assets.Get(ctx, testTenant, drop.ID); !errors.As(err, &notFound) {
		t.Fatalf("dropped asset must be deleted, got %v", err)
	}
	if _, err := f.assets.Get(ctx, testTenant, keep.ID); err != nil {
		t.Fatalf("surviving asset must remain: %v", err)
	}
	if got := f.refVersion(t, domain.ResourceAssets); got != assetsBefore+1 {
		t.Fatalf("assets ref must bump exactly once, got %d (was %d)", got, assetsBefore)
	}
}

func TestService_UpdateProduct_StripsDeletedAssetLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keep := f.registerAsset(t)
	drop, err := f.assets.Register(ctx, assets.RegisterInput{
		TenantID: testTenant, Name: "icon", Ext: "png", Path: "tenants/dd01/icon.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name: "espresso",
				Resources: map[string]uuid.UUID{
					contents.SlotMain: keep.ID,
					"icon":            drop.ID,
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Clients resend the full link lists; dropping the slot alone must be
	// enough to detach the asset everywhere.
	updated, err := f.catalog.UpdateProduct(ctx, catalog.UpdateProductInput{
		TenantID: testTenant,
		ID:       product.ID,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: keep.ID},
				Assets:    []uuid.UUID{keep.ID, drop.ID},
			},
		},
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	for _, id := range updated.Contents["en"].Assets {
		if id == drop.ID {
			t.Fatal("deleted asset id must be stripped from the assets list")
		}
	}

	// The cascade must still succeed on the cleaned-up state.
	if err := f.catalog.DeleteProduct(ctx, testTenant, product.ID); err != nil {
		t.Fatalf("DeleteProduct after update: %v", err)
	}
}

func TestService_DeleteProduct_Cascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owned := f.registerAsset(t)

	first, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Position: 0,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: owned.ID},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	second, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Position: 1,
		Contents: simpleContents("latte"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Hang a child under the first product's joint so the whole
	// subtree must go.
	child, err := f.nodes.Attach(ctx, nodes.AttachInput{
		TenantID:  testTenant,
		ParentID:  *first.JointNodeID,
		Type:      domain.NodeProduct,
		ContentID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	productsBefore := f.refVersion(t, domain.ResourceProducts)

	if err := f.catalog.DeleteProduct(ctx, testTenant, first.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	if _, err := f.catalog.GetProduct(ctx, testTenant, first.ID); err == nil {
		t.Fatal("record must be gone")
	}
	if _, err := f.assets.Get(ctx, testTenant, owned.ID); err == nil {
		t.Fatal("owned asset must be gone")
	}
	for _, nodeID := range []uuid.UUID{*first.JointNodeID, child.ID} {
		if _, err := f.nodes.Get(ctx, testTenant, nodeID); err == nil {
			t.Fatalf("node %s must be gone", nodeID)
		}
	}

	remaining, err := f.catalog.GetProduct(ctx, testTenant, second.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if remaining.Position != 0 {
		t.Fatalf("sibling must be renumbered to 0, got %d", remaining.Position)
	}

	if got := f.refVersion(t, domain.ResourceProducts); got != productsBefore+1 {
		t.Fatalf("products ref must bump exactly once, got %d (was %d)", got, productsBefore)
	}
}

func TestService_DeleteProduct_PartialFailureSurfacesStep(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	// Refs deliberately left unseeded, so the final bump step fails
	// after every destructive step already ran.
	svc := catalog.NewService(catalog.Deps{
		Products:  catalog.NewMemoryProductRepository(),
		Selectors: catalog.NewMemorySelectorRepository(),
		Tags:      catalog.NewMemoryTagRepository(),
		Nodes:     nodes.NewService(nodes.NewMemoryRepository(), nodes.WithClock(clock)),
		Assets:    assets.NewService(assets.NewMemoryRepository(), discardBlobStore{}, assets.WithClock(clock)),
		Refs:      refs.NewService(refs.NewMemoryRepository(), refs.WithClock(clock)),
	}, catalog.WithClock(clock))

	product, err := svc.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: simpleContents("espresso"),
	})
	var partial *catalog.PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialFailureError, got %v", err)
	}
	if partial.Op != "CreateProduct" || partial.Step == "" {
		t.Fatalf("failure must name op and step, got %+v", partial)
	}

	// No rollback: the record and its joint node persisted.
	if product == nil {
		t.Fatal("partially created record must be returned")
	}
	if _, err := svc.GetProduct(ctx, testTenant, product.ID); err != nil {
		t.Fatalf("record must survive the partial failure: %v", err)
	}
}

func TestService_ReplaceResource_DeletesDisplacedWhenLastReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	old := f.registerAsset(t)
	replacement, err := f.assets.Register(ctx, assets.RegisterInput{
		TenantID: testTenant, Name: "new", Ext: "png", Path: "tenants/dd01/new.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: old.ID},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	assetsBefore := f.refVersion(t, domain.ResourceAssets)

	if err := f.catalog.ReplaceResource(ctx, catalog.ReplaceResourceInput{
		TenantID: testTenant,
		Kind:     catalog.KindProduct,
		EntityID: product.ID,
		Language: "en",
		Slot:     contents.SlotMain,
		AssetID:  replacement.ID,
	}); err != nil {
		t.Fatalf("ReplaceResource: %v", err)
	}

	if _, err := f.assets.Get(ctx, testTenant, old.ID); err == nil {
		t.Fatal("displaced single-reference asset must be deleted")
	}
	if got := f.refVersion(t, domain.ResourceAssets); got != assetsBefore+1 {
		t.Fatalf("assets ref must bump once, got %d (was %d)", got, assetsBefore)
	}

	updated, err := f.catalog.GetProduct(ctx, testTenant, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	en := updated.Contents["en"]
	if en.Resources[contents.SlotMain] != replacement.ID {
		t.Fatalf("slot must hold the replacement, got %s", en.Resources[contents.SlotMain])
	}
	found := false
	for _, id := range en.Assets {
		if id == replacement.ID {
			found = true
		}
		if id == old.ID {
			t.Fatal("displaced asset must leave the assets list")
		}
	}
	if !found {
		t.Fatal("replacement must join the assets list")
	}
}

func TestService_ReplaceResource_SharedAssetSurvives(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shared := f.registerAsset(t)
	replacement, err := f.assets.Register(ctx, assets.RegisterInput{
		TenantID: testTenant, Name: "new", Ext: "png", Path: "tenants/dd01/new.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// The shared asset occupies slots in two languages, so replacing
	// one occurrence must not delete it.
	product, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: shared.ID},
			},
			"de": {
				Name:      "Espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: shared.ID},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	assetsBefore := f.refVersion(t, domain.ResourceAssets)

	if err := f.catalog.ReplaceResource(ctx, catalog.ReplaceResourceInput{
		TenantID: testTenant,
		Kind:     catalog.KindProduct,
		EntityID: product.ID,
		Language: "en",
		Slot:     contents.SlotMain,
		AssetID:  replacement.ID,
	}); err != nil {
		t.Fatalf("ReplaceResource: %v", err)
	}

	if _, err := f.assets.Get(ctx, testTenant, shared.ID); err != nil {
		t.Fatalf("shared asset must survive: %v", err)
	}
	if got := f.refVersion(t, domain.ResourceAssets); got != assetsBefore {
		t.Fatalf("assets ref must not bump without a physical delete, got %d (was %d)", got, assetsBefore)
	}
}

func TestService_ReorderProducts_AppliesVerbatim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant, Position: 0, Contents: simpleContents("espresso"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	second, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant, Position: 1, Contents: simpleContents("latte"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	productsBefore := f.refVersion(t, domain.ResourceProducts)

	if err := f.catalog.ReorderProducts(ctx, testTenant, []ordering.Placement{
		{ID: first.ID, Position: 5},
		{ID: second.ID, Position: 2},
	}); err != nil {
		t.Fatalf("ReorderProducts: %v", err)
	}

	got, err := f.catalog.GetProduct(ctx, testTenant, first.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Position != 5 {
		t.Fatalf("positions apply verbatim, expected 5, got %d", got.Position)
	}
	if got := f.refVersion(t, domain.ResourceProducts); got != productsBefore+1 {
		t.Fatalf("products ref must bump once per reorder, got %d (was %d)", got, productsBefore)
	}
}

func TestService_DeleteTag_CleansAssetsWithoutNodes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owned := f.registerAsset(t)

	tag, err := f.catalog.CreateTag(ctx, catalog.CreateTagInput{
		TenantID: testTenant,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "vegan",
				Resources: map[string]uuid.UUID{"icon": owned.ID},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	tagsBefore := f.refVersion(t, domain.ResourceTags)

	if err := f.catalog.DeleteTag(ctx, testTenant, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	if _, err := f.assets.Get(ctx, testTenant, owned.ID); err == nil {
		t.Fatal("tag-owned asset must be deleted")
	}
	if got := f.refVersion(t, domain.ResourceTags); got != tagsBefore+1 {
		t.Fatalf("tags ref must bump once, got %d (was %d)", got, tagsBefore)
	}
}

func TestService_CreateProduct_ValidatesExtraSchema(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	nodeSvc := nodes.NewService(nodes.NewMemoryRepository(), nodes.WithClock(clock))
	assetSvc := assets.NewService(assets.NewMemoryRepository(), discardBlobStore{}, assets.WithClock(clock))
	refSvc := refs.NewService(refs.NewMemoryRepository(), refs.WithClock(clock))
	if _, err := refSvc.EnsureTenant(ctx, testTenant); err != nil {
		t.Fatalf("EnsureTenant: %v", err)
	}

	svc := catalog.NewService(catalog.Deps{
		Products:  catalog.NewMemoryProductRepository(),
		Selectors: catalog.NewMemorySelectorRepository(),
		Tags:      catalog.NewMemoryTagRepository(),
		Nodes:     nodeSvc,
		Assets:    assetSvc,
		Refs:      refSvc,
	},
		catalog.WithClock(clock),
		catalog.WithExtraSchema(catalog.KindProduct, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sku": map[string]any{"type": "string"},
			},
			"required": []any{"sku"},
		}),
	)

	_, err := svc.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: simpleContents("espresso"),
		Extra:    map[string]any{"sku": 42},
	})
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation failure, got %v", err)
	}

	if _, err := svc.CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: testTenant,
		Contents: simpleContents("espresso"),
		Extra:    map[string]any{"sku": "ESP-01"},
	}); err != nil {
		t.Fatalf("valid extra payload must pass: %v", err)
	}
}

func TestService_TenantRequiredEverywhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{Contents: simpleContents("x")}); !errors.Is(err, catalog.ErrTenantRequired) {
		t.Fatalf("CreateProduct: expected ErrTenantRequired, got %v", err)
	}
	if err := f.catalog.DeleteProduct(ctx, uuid.Nil, uuid.New()); !errors.Is(err, catalog.ErrTenantRequired) {
		t.Fatalf("DeleteProduct: expected ErrTenantRequired, got %v", err)
	}
	if err := f.catalog.ReplaceResource(ctx, catalog.ReplaceResourceInput{}); !errors.Is(err, catalog.ErrTenantRequired) {
		t.Fatalf("ReplaceResource: expected ErrTenantRequired, got %v", err)
	}
}
