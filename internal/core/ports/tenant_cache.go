package ports

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/tenant"
)

// TenantCache is the lookup cache in front of the tenant store.
//
// Implementations decide tag support at construction time and expose it via
// SupportsTags. Callers must never probe for the capability reactively, and
// must not assume tag-based invalidation is available: without it the cache
// degrades to plain TTL expiry, which is acceptable.
//
// Concurrent Get/Set for the same key must be safe; recomputing a value twice
// is a performance cost, not a correctness bug.
type TenantCache interface {
	// Get returns the cached tenant for key, or ok=false on a miss.
	// Cache failures are misses: resolution must keep working without the cache.
	Get(ctx context.Context, key string) (t *tenant.Tenant, ok bool)

	// Set stores the tenant under key for ttl. When the implementation
	// supports tags the entry is also tagged for bulk invalidation.
	Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration)

	// SupportsTags reports whether tagged invalidation is available.
	// Decided when the backend is constructed, never discovered per call.
	SupportsTags() bool

	// InvalidateTenant drops every cached entry for the tenant. With tag
	// support this is one tag flush; without it, it is best effort.
	InvalidateTenant(ctx context.Context, t *tenant.Tenant) error
}
