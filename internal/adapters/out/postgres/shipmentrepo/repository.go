package shipmentrepo

import (
	"context"
	"errors"
	"strings"

	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/errs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
//
// Tenant isolation lives here: every regular method adds a tenant_id predicate
// to its SQL, and a shipment belonging to another tenant is indistinguishable
// from a missing one. ListActiveWithoutTenantScope is the single unscoped read
// and logs every call.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	logger  *zap.Logger
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker, logger *zap.Logger) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
		logger:  logger,
	}
}

// Add saves a new shipment into the tenant's partition.
func (r *GormShipmentRepository) Add(ctx context.Context, tenantID kernel.UUID, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if !aggregate.TenantID().IsEqual(tenantID) {
		return errs.NewValueIsInvalidError("tenant id")
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing shipment in the tenant's partition.
func (r *GormShipmentRepository) Update(ctx context.Context, tenantID kernel.UUID, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if !aggregate.TenantID().IsEqual(tenantID) {
		return errs.NewValueIsInvalidError("tenant id")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ShipmentDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("Status", "StatusDescription", "StatusCheckedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a shipment by ID from the tenant's partition.
func (r *GormShipmentRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*shipment.Shipment, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByVoucher retrieves the tenant's shipment carrying the given voucher.
func (r *GormShipmentRepository) GetByVoucher(ctx context.Context, tenantID kernel.UUID, voucher string) (*shipment.Shipment, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	voucher = strings.TrimSpace(voucher)
	if voucher == "" {
		return nil, errs.NewValueIsRequiredError("voucher")
	}

	var dto ShipmentDTO
	err := r.db.WithContext(ctx).
		First(&dto, "voucher = ? AND tenant_id = ?", voucher, tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", voucher)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListActiveWithoutTenantScope retrieves non-terminal shipments across all
// tenants for the background status poller.
func (r *GormShipmentRepository) ListActiveWithoutTenantScope(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	tenancy.LoggerFromContext(ctx, r.logger).Info("cross-tenant shipment read",
		zap.String("reason", "status polling"),
		zap.Int("limit", limit))

	var dtos []ShipmentDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{shipment.Registered.String(), shipment.InTransit.String()}).
		Order("status_checked_at ASC NULLS FIRST").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}

	return shipments, nil
}
