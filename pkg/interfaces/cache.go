package interfaces

import "github.com/goliatone/go-repository-cache/cache"

// CacheService re-exports the repository cache contract so embedding
// applications can supply an implementation without importing the cache
// module directly.
type CacheService = cache.CacheService

// KeySerializer builds deterministic cache keys from repository call sites.
type KeySerializer = cache.KeySerializer
