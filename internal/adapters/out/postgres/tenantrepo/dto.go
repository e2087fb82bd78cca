// Package tenantrepo provides data transfer objects and mapping functions for
// tenant persistence. It implements the repository pattern for the tenant
// aggregate, converting between domain entities and database rows.
package tenantrepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"

	"github.com/google/uuid"
)

// TenantDTO represents the database structure for persisting tenant aggregates.
// Subdomain and primary domain carry unique indexes because both are resolution
// keys: two tenants must never claim the same one.
type TenantDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	Subdomain     string  `gorm:"uniqueIndex"`
	PrimaryDomain *string `gorm:"uniqueIndex"`
	Active        bool    `gorm:"index"`
	SuspendedAt   *time.Time
	CreatedAt     time.Time
}

// TableName specifies the database table name for tenant entities.
func (TenantDTO) TableName() string {
	return "tenants"
}

// fromDomain converts a tenant domain aggregate to its database representation.
func fromDomain(t *tenant.Tenant) TenantDTO {
	var primaryDomain *string
	if d := t.PrimaryDomain(); d != "" {
		primaryDomain = &d
	}

	return TenantDTO{
		ID:            t.ID().Bytes(),
		Name:          t.Name(),
		Subdomain:     t.Subdomain(),
		PrimaryDomain: primaryDomain,
		Active:        t.Active(),
		SuspendedAt:   t.SuspendedAt(),
		CreatedAt:     t.CreatedAt(),
	}
}

// toDomain converts a database DTO to a tenant domain aggregate.
func toDomain(dto TenantDTO) (*tenant.Tenant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var primaryDomain string
	if dto.PrimaryDomain != nil {
		primaryDomain = *dto.PrimaryDomain
	}

	return tenant.RestoreTenant(
		id,
		dto.Name,
		dto.Subdomain,
		primaryDomain,
		dto.Active,
		dto.SuspendedAt,
		dto.CreatedAt,
	)
}
