package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	kiosk "github.com/goliatone/go-kiosk"
	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/catalog"
	"github.com/goliatone/go-kiosk/internal/contents"
	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/nodes"
	"github.com/goliatone/go-kiosk/internal/refs"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
	"github.com/google/uuid"
)

// Walks a full catalog lifecycle against the in-memory backends:
// tenant bootstrap, asset registration, product creation with localized
// contents, node chain inspection, and the cascading delete.
func main() {
	ctx := context.Background()

	cfg := kiosk.DefaultConfig()
	cfg.Tenancy.ThemeDiscriminators = []string{"kiosk", "tabletop"}

	module, err := kiosk.New(cfg)
	if err != nil {
		log.Fatalf("kiosk: %v", err)
	}

	tenantID := uuid.New()
	if err := module.BootstrapTenant(ctx, tenantID); err != nil {
		log.Fatalf("bootstrap tenant: %v", err)
	}
	fmt.Printf("bootstrapped tenant %s\n", tenantID)

	upload := assets.RegisterInputFromUpload(tenantID, interfaces.UploadResult{
		Name: "espresso-banner",
		Ext:  "png",
		Path: "tenants/" + tenantID.String() + "/espresso-banner.png",
	})
	upload.Active = true
	banner, err := module.Assets().Register(ctx, upload)
	if err != nil {
		log.Fatalf("register asset: %v", err)
	}

	drinks, err := module.Catalog().CreateSelector(ctx, catalog.CreateSelectorInput{
		TenantID: tenantID,
		Active:   true,
		Contents: contents.LocalizedContents{
			"en": {Name: "Drinks"},
			"de": {Name: "Getränke"},
		},
	})
	if err != nil {
		log.Fatalf("create selector: %v", err)
	}

	espresso, err := module.Catalog().CreateProduct(ctx, catalog.CreateProductInput{
		TenantID: tenantID,
		Active:   true,
		Contents: contents.LocalizedContents{
			"en": {
				Name:      "Espresso",
				Resources: map[string]uuid.UUID{contents.SlotMain: banner.ID},
			},
			"de": {Name: "Espresso"},
		},
	})
	if err != nil {
		log.Fatalf("create product: %v", err)
	}

	// The product's joint hangs under the selector's subtree.
	if _, err := module.Nodes().Attach(ctx, nodes.AttachInput{
		TenantID:  tenantID,
		ParentID:  *drinks.JointNodeID,
		Type:      domain.NodeProduct,
		ContentID: espresso.ID,
		Active:    true,
	}); err != nil {
		log.Fatalf("attach product node: %v", err)
	}

	chain, err := module.Nodes().Chain(ctx, tenantID, *drinks.JointNodeID)
	if err != nil {
		log.Fatalf("chain: %v", err)
	}
	fmt.Printf("drinks subtree holds %d nodes\n", len(chain))

	productsRef, err := module.Refs().Get(ctx, refs.Key{TenantID: tenantID, Name: domain.ResourceProducts})
	if err != nil {
		log.Fatalf("refs: %v", err)
	}
	fmt.Printf("products ref at version %d\n", productsRef.Version)

	dump(espresso)

	if err := module.Catalog().DeleteProduct(ctx, tenantID, espresso.ID); err != nil {
		log.Fatalf("delete product: %v", err)
	}
	fmt.Println("product deleted, assets and joint node cleaned up")
}

func dump(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
