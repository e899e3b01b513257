package kiosk

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-kiosk/internal/catalog"
	"github.com/goliatone/go-kiosk/pkg/interfaces"
)

// Option mutates the module before its services are finalised.
type Option func(*Kiosk)

// WithDB switches persistence from in-memory repositories to bun-backed ones.
func WithDB(db *bun.DB) Option {
	return func(k *Kiosk) {
		k.db = db
	}
}

// WithLoggerProvider overrides the logging provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(k *Kiosk) {
		if provider != nil {
			k.provider = provider
		}
	}
}

// WithBlobStore wires the backend holding asset binaries so deletes
// reach the physical files.
func WithBlobStore(store interfaces.BlobStore) Option {
	return func(k *Kiosk) {
		if store != nil {
			k.blobs = store
		}
	}
}

// WithCache enables repository-level caching. It only takes effect when
// the configuration has caching enabled and a database is supplied.
func WithCache(service interfaces.CacheService, serializer interfaces.KeySerializer) Option {
	return func(k *Kiosk) {
		k.cacheService = service
		k.keySerializer = serializer
	}
}

// WithExtraSchema registers a JSON schema enforced against the Extra
// payload of one catalog entity kind.
func WithExtraSchema(kind catalog.EntityKind, schema map[string]any) Option {
	return func(k *Kiosk) {
		if k.extraSchemas == nil {
			k.extraSchemas = map[catalog.EntityKind]map[string]any{}
		}
		k.extraSchemas[kind] = schema
	}
}
