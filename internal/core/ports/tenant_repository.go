// Package ports defines repository and infrastructure interfaces for the
// tracking platform. These interfaces establish contracts between the core
// layers and the adapters, enabling dependency inversion and testability.
package ports

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"
)

// TenantRepository defines the persistence contract for tenant aggregates.
//
// Every FindOperational* method filters to operational tenants (active and not
// suspended): resolution steps must never see a deactivated tenant, even when
// it is addressed directly by id. Misses are reported as
// errs.ObjectNotFoundError so callers can fall through to the next resolution
// step.
type TenantRepository interface {
	// Add persists a new tenant aggregate.
	Add(ctx context.Context, t *tenant.Tenant) error

	// Update persists changes to an existing tenant aggregate.
	Update(ctx context.Context, t *tenant.Tenant) error

	// FindOperationalByID looks up an operational tenant by its identity.
	FindOperationalByID(ctx context.Context, id kernel.UUID) (*tenant.Tenant, error)

	// FindOperationalBySubdomain looks up an operational tenant by its
	// lowercase subdomain label.
	FindOperationalBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)

	// FindOperationalByDomain looks up an operational tenant by its custom
	// primary domain (already normalized to lowercase by the caller).
	FindOperationalByDomain(ctx context.Context, domain string) (*tenant.Tenant, error)
}
