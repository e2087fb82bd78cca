package tenantrepo

import (
	"context"
	"errors"
	"strings"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM.
//
// Every FindOperational* method applies the operational filter in SQL: a
// deactivated or suspended tenant is invisible to resolution, even when
// addressed directly by id.
type GormTenantRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTenantRepository creates a new GORM tenant repository.
func NewGormTenantRepository(db *gorm.DB, tracker aggregateTracker) *GormTenantRepository {
	return &GormTenantRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new tenant to the database.
func (r *GormTenantRepository) Add(ctx context.Context, aggregate *tenant.Tenant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing tenant to the database.
func (r *GormTenantRepository) Update(ctx context.Context, aggregate *tenant.Tenant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TenantDTO{}).
		Where("id = ?", dto.ID).
		Select("Name", "Subdomain", "PrimaryDomain", "Active", "SuspendedAt").
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

// FindOperationalByID retrieves an active, non-suspended tenant by ID.
func (r *GormTenantRepository) FindOperationalByID(ctx context.Context, id kernel.UUID) (*tenant.Tenant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.findOperational(ctx, "id = ?", id.Bytes())
}

// FindOperationalBySubdomain retrieves an active, non-suspended tenant by its
// subdomain label.
func (r *GormTenantRepository) FindOperationalBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return nil, errs.NewValueIsRequiredError("subdomain")
	}

	return r.findOperational(ctx, "subdomain = ?", subdomain)
}

// FindOperationalByDomain retrieves an active, non-suspended tenant by its
// custom primary domain.
func (r *GormTenantRepository) FindOperationalByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, errs.NewValueIsRequiredError("domain")
	}

	return r.findOperational(ctx, "primary_domain = ?", domain)
}

func (r *GormTenantRepository) findOperational(ctx context.Context, condition string, value any) (*tenant.Tenant, error) {
	var dto TenantDTO
	err := r.db.WithContext(ctx).
		Where(condition, value).
		Where("active = ? AND suspended_at IS NULL", true).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tenant", value)
		}
		return nil, err
	}

	return toDomain(dto)
}
