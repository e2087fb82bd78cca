package ports

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
//
// Tenant isolation is enforced at the signature level: every regular method
// requires the owning tenant's id and touches only that tenant's partition.
// There is no way to read another tenant's rows through these methods, which
// is the platform's central invariant.
//
// ListActiveWithoutTenantScope is the single escape hatch. It exists only for
// system-level tooling, namely the cross-tenant status poller, and every
// implementation must log its use as a security-sensitive operation.
type ShipmentRepository interface {
	// Add persists a new shipment into the tenant's partition.
	// The shipment's own tenant id must equal tenantID.
	Add(ctx context.Context, tenantID kernel.UUID, s *shipment.Shipment) error

	// Update persists changes to an existing shipment in the tenant's partition.
	Update(ctx context.Context, tenantID kernel.UUID, s *shipment.Shipment) error

	// Get retrieves one shipment from the tenant's partition.
	// A shipment existing under a different tenant is reported as not found.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*shipment.Shipment, error)

	// GetByVoucher retrieves the tenant's shipment carrying the given voucher.
	GetByVoucher(ctx context.Context, tenantID kernel.UUID, voucher string) (*shipment.Shipment, error)

	// ListActiveWithoutTenantScope returns non-terminal shipments across ALL
	// tenants. Escape hatch for the background status poller; audited on
	// every call.
	ListActiveWithoutTenantScope(ctx context.Context, limit int) ([]*shipment.Shipment, error)
}
