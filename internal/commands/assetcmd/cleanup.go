package assetcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/assets"
	"github.com/goliatone/go-kiosk/internal/commands"
	"github.com/goliatone/go-kiosk/internal/domain"
	"github.com/goliatone/go-kiosk/internal/logging"
	"github.com/goliatone/go-kiosk/internal/refs"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

const cleanupAssetsMessageType = "kiosk.assets.cleanup"

// CleanupAssetsCommand removes orphaned assets for one tenant: the
// registry records plus their stored binaries and mipmaps.
type CleanupAssetsCommand struct {
	TenantID uuid.UUID   `json:"tenant_id"`
	AssetIDs []uuid.UUID `json:"asset_ids"`
	DryRun   bool        `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (CleanupAssetsCommand) Type() string { return cleanupAssetsMessageType }

// Validate ensures the command payload names a tenant and at least one asset.
func (m CleanupAssetsCommand) Validate() error {
	errs := validation.Errors{}
	if m.TenantID == uuid.Nil {
		errs["tenant_id"] = validation.NewError("kiosk.assets.cleanup.tenant_required", "tenant id is required")
	}
	if len(m.AssetIDs) == 0 {
		errs["asset_ids"] = validation.NewError("kiosk.assets.cleanup.ids_required", "asset ids must include at least one entry")
	} else {
		for _, id := range m.AssetIDs {
			if id == uuid.Nil {
				errs["asset_ids"] = validation.NewError("kiosk.assets.cleanup.ids_invalid", "asset ids must not contain the zero id")
				break
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanupAssetsHandler executes the orphan sweep using the shared command handler foundation.
type CleanupAssetsHandler struct {
	inner *commands.Handler[CleanupAssetsCommand]
}

// NewCleanupAssetsHandler constructs a handler wired to the asset and ref services.
func NewCleanupAssetsHandler(service assets.Service, versions refs.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanupAssetsCommand]) *CleanupAssetsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CleanupAssetsCommand) error {
		if msg.DryRun {
			logging.WithFields(baseLogger, map[string]any{
				"tenant_id": msg.TenantID,
				"asset_ids": len(msg.AssetIDs),
			}).Info("assets.command.cleanup.dry_run")
			return nil
		}

		deleted, err := service.DeleteBatch(ctx, msg.TenantID, msg.AssetIDs)
		if err != nil {
			return err
		}
		if deleted > 0 {
			if _, err := versions.Bump(ctx, refs.Key{TenantID: msg.TenantID, Name: domain.ResourceAssets}); err != nil {
				return err
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"tenant_id": msg.TenantID,
			"deleted":   deleted,
		}).Info("assets.command.cleanup.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanupAssetsCommand]{
		commands.WithLogger[CleanupAssetsCommand](baseLogger),
		commands.WithOperation[CleanupAssetsCommand]("assets.cleanup"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanupAssetsHandler{
		inner: commands.NewHandler[CleanupAssetsCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanupAssetsCommand].
func (h *CleanupAssetsHandler) Execute(ctx context.Context, msg CleanupAssetsCommand) error {
	return h.inner.Execute(ctx, msg)
}
