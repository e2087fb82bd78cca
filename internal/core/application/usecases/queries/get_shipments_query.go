// Package queries contains read-only operations for the CQRS read side.
// Query handlers bypass the aggregate layer and read projections directly
// from the database, always scoped to the calling tenant.
package queries

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/guard"
)

var (
	ErrGetShipmentsQueryIsNotConstructed = errors.New(
		"GetShipmentsQuery must be created via NewGetShipmentsQuery constructor",
	)
)

// GetShipmentsQuery retrieves the calling tenant's shipments, optionally
// filtered to one delivery status.
//
// Example:
//
//	query, err := NewGetShipmentsQuery("InTransit")
//	if err != nil {
//	    return fmt.Errorf("invalid status filter: %w", err)
//	}
//
//	handler := NewGetShipmentsQueryHandler(db)
//	shipments, err := handler.Handle(ctx, query)
type GetShipmentsQuery struct {
	statusFilter string

	guard guard.ConstructorGuard
}

// NewGetShipmentsQuery creates a query for the tenant's shipments.
// statusFilter is optional; when non-empty it must name a valid delivery
// status ("Registered", "InTransit", "Delivered", "Failed").
func NewGetShipmentsQuery(statusFilter string) (GetShipmentsQuery, error) {
	statusFilter = strings.TrimSpace(statusFilter)
	if statusFilter != "" {
		if _, err := shipment.StatusFromString(statusFilter); err != nil {
			return GetShipmentsQuery{}, err
		}
	}

	return GetShipmentsQuery{
		statusFilter: statusFilter,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetShipmentsQueryIsNotConstructed if validation fails.
func (q GetShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentsQueryIsNotConstructed)
}

// StatusFilter returns the status name to filter by; empty means all statuses.
func (q GetShipmentsQuery) StatusFilter() string {
	return q.statusFilter
}

// GetShipmentsQueryResponse represents one shipment row of the read model.
type GetShipmentsQueryResponse struct {
	ID                kernel.UUID
	OrderNumber       string
	Voucher           string
	CourierID         string
	Status            string
	StatusDescription string
	StatusCheckedAt   *time.Time
}
