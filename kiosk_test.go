package kiosk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	kiosk "github.com/goliatone/go-kiosk"
	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/catalog"
	"github.com/goliatone/go-kiosk/internal/commands/assetcmd"
	"github.com/goliatone/go-kiosk/internal/contents"
	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/refs"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-00000000ff01")

func newModule(t *testing.T, opts ...kiosk.Option) *kiosk.Kiosk {
	t.Helper()
	module, err := kiosk.New(kiosk.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.BootstrapTenant(context.Background(), tenantID); err != nil {
		t.Fatalf("BootstrapTenant: %v", err)
	}
	return module
}

func TestModule_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	asset, err := module.Assets().Register(ctx, assets.RegisterInput{
		TenantID: tenantID,
		Name:     "banner",
		Ext:      ".png",
		Path:     "tenants/ff01/banner.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	product, err := module.Catalog().CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: tenantID,
		Active:   true,
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

	// Normalization propagated the default-language asset.
	if product.Contents["de"].Resources[contents.SlotMain] != asset.ID {
		t.Fatal("german block must inherit the default main asset")
	}
	if product.JointNodeID == nil {
		t.Fatal("product must own a joint node")
	}
	if _, err := module.Nodes().Get(ctx, tenantID, *product.JointNodeID); err != nil {
		t.Fatalf("joint node lookup: %v", err)
	}

	if err := module.Catalog().DeleteProduct(ctx, tenantID, product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := module.Assets().Get(ctx, tenantID, asset.ID); err == nil {
		t.Fatal("owned asset must be cleaned up")
	}
	if _, err := module.Nodes().Get(ctx, tenantID, *product.JointNodeID); err == nil {
		t.Fatal("joint node must be cleaned up")
	}
}

func TestModule_BootstrapSeedsRefs(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	listed, err := module.Refs().ListByTenant(ctx, tenantID)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(listed) != len(domain.ResourceTypes()) {
		t.Fatalf("expected %d seeded refs, got %d", len(domain.ResourceTypes()), len(listed))
	}

	ref, err := module.Refs().Get(ctx, refs.Key{TenantID: tenantID, Name: domain.ResourceProducts})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ref.Version != 1 {
		t.Fatalf("seeded ref must start at version 1, got %d", ref.Version)
	}
}

func TestModule_ThemeDiscriminatorsSeedExtraRefs(t *testing.T) {
	ctx := context.Background()
	cfg := kiosk.DefaultConfig()
	cfg.Tenancy.ThemeDiscriminators = []string{"kiosk", "tabletop"}

	module, err := kiosk.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.BootstrapTenant(ctx, tenantID); err != nil {
		t.Fatalf("BootstrapTenant: %v", err)
	}

	listed, err := module.Refs().ListByTenant(ctx, tenantID)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(listed) <= len(domain.ResourceTypes()) {
		t.Fatalf("expected themed refs on top of the %d base refs, got %d", len(domain.ResourceTypes()), len(listed))
	}
}

func TestModule_CleanupAssetsCommand(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	asset, err := module.Assets().Register(ctx, assets.RegisterInput{
		TenantID: tenantID,
		Name:     "stale",
		Ext:      "jpg",
		Path:     "tenants/ff01/stale.jpg",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := module.CleanupAssets().Execute(ctx, assetcmd.CleanupAssetsCommand{
		TenantID: tenantID,
		AssetIDs: []uuid.UUID{asset.ID},
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var notFound *assets.NotFoundError
	if _, err := module.Assets().Get(ctx, tenantID, asset.ID); !errors.As(err, &notFound) {
		t.Fatalf("asset must be swept, got %v", err)
	}
}

func TestModule_RejectsInvalidConfig(t *testing.T) {
	cfg := kiosk.DefaultConfig()
	cfg.DefaultLanguage = ""

	if _, err := kiosk.New(cfg); !errors.Is(err, kiosk.ErrDefaultLanguageRequired) {
		t.Fatalf("expected ErrDefaultLanguageRequired, got %v", err)
	}
}
