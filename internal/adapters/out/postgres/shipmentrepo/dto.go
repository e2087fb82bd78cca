// Package shipmentrepo provides data transfer objects and mapping functions
// for shipment persistence. Every regular access path is keyed by tenant, so
// the table's primary indexes are composite with tenant_id first.
package shipmentrepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment aggregates.
// The (tenant_id, voucher) unique index enforces one tracked voucher per tenant;
// the status index serves the poller's active-shipment sweep.
type ShipmentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID          uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_tenant_voucher"`
	OrderNumber       string
	Voucher           string `gorm:"uniqueIndex:idx_tenant_voucher"`
	CourierID         string
	BillingPhone      string
	ShippingPhone     string
	Status            string `gorm:"index"`
	StatusDescription string
	StatusCheckedAt   *time.Time
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// fromDomain converts a shipment domain aggregate to its database representation.
func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:                s.ID().Bytes(),
		TenantID:          s.TenantID().Bytes(),
		OrderNumber:       s.OrderNumber(),
		Voucher:           s.Voucher(),
		CourierID:         s.CourierID(),
		BillingPhone:      s.BillingPhone(),
		ShippingPhone:     s.ShippingPhone(),
		Status:            s.Status().String(),
		StatusDescription: s.StatusDescription(),
		StatusCheckedAt:   s.StatusCheckedAt(),
	}
}

// toDomain converts a database DTO to a shipment domain aggregate.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	status, err := shipment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(
		id,
		tenantID,
		dto.OrderNumber,
		dto.Voucher,
		dto.CourierID,
		dto.BillingPhone,
		dto.ShippingPhone,
		status,
		dto.StatusDescription,
		dto.StatusCheckedAt,
	)
}
