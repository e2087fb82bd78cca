package tenant

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// Domain errors for tenant operations.
var (
	// ErrNameIsRequired is returned when attempting to create a tenant without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrSubdomainIsRequired is returned when attempting to create a tenant without a subdomain.
	ErrSubdomainIsRequired = errs.NewValueIsRequiredError("subdomain")
	// ErrSubdomainIsInvalid is returned when a subdomain contains characters outside [a-z0-9-].
	ErrSubdomainIsInvalid = errs.NewValueIsInvalidError("subdomain")
	// ErrPrimaryDomainIsInvalid is returned when a primary domain is malformed.
	ErrPrimaryDomainIsInvalid = errs.NewValueIsInvalidError("primary domain")
	// ErrTenantIsNotConstructed is returned when using an improperly initialized Tenant.
	ErrTenantIsNotConstructed = errors.New("Tenant must be created via NewTenant constructor")
)

// Tenant represents one isolated customer account of the platform.
// It is an aggregate root carrying the identity every piece of business data
// (shipments, orders, customers) is partitioned by.
//
// Business rules:
//   - Subdomain is mandatory, stored lowercase, and unique platform-wide
//   - Primary domain is optional, stored lowercase, and unique when present
//   - An inactive or suspended tenant must never be produced by resolution lookups;
//     IsOperational is the single predicate deciding that
//   - Tenants are never hard-deleted while shipments reference them; admins
//     deactivate or suspend instead
type Tenant struct {
	// id uniquely identifies the tenant; every tenant-owned row carries it
	id kernel.UUID
	// name is the human-readable account name
	name string
	// subdomain is the lowercase label the tenant is reached under ({subdomain}.platform-host)
	subdomain string
	// primaryDomain is an optional custom domain pointing at this tenant
	primaryDomain string
	// active is cleared when an admin deactivates the account
	active bool
	// suspendedAt is set when an admin suspends the account
	suspendedAt *time.Time
	// createdAt records signup time
	createdAt time.Time
	// guard ensures the tenant was properly constructed
	guard guard.ConstructorGuard
}

// NewTenant creates an active tenant with the given identity, name and subdomain.
// The subdomain is normalized to lowercase and validated against [a-z0-9-].
func NewTenant(id kernel.UUID, name, subdomain string, createdAt time.Time) (*Tenant, error) {
	t := &Tenant{
		active:    true,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setName(name),
		t.setSubdomain(subdomain),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// RestoreTenant reconstructs a tenant aggregate from persistent storage,
// preserving its activation and suspension state.
func RestoreTenant(
	id kernel.UUID,
	name, subdomain, primaryDomain string,
	active bool,
	suspendedAt *time.Time,
	createdAt time.Time,
) (*Tenant, error) {
	t := &Tenant{
		active:      active,
		suspendedAt: suspendedAt,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setName(name),
		t.setSubdomain(subdomain),
	); err != nil {
		return nil, err
	}

	if primaryDomain != "" {
		if err := t.SetPrimaryDomain(primaryDomain); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Validate ensures the tenant was created through a constructor.
func (t *Tenant) Validate() error {
	return t.guard.Validate(ErrTenantIsNotConstructed)
}

// ID returns the tenant identity.
func (t *Tenant) ID() kernel.UUID {
	return t.id
}

// Name returns the human-readable account name.
func (t *Tenant) Name() string {
	return t.name
}

// Subdomain returns the lowercase subdomain label.
func (t *Tenant) Subdomain() string {
	return t.subdomain
}

// PrimaryDomain returns the custom domain, or "" when none is configured.
func (t *Tenant) PrimaryDomain() string {
	return t.primaryDomain
}

// Active reports whether the account is activated.
func (t *Tenant) Active() bool {
	return t.active
}

// SuspendedAt returns the suspension timestamp, or nil when not suspended.
func (t *Tenant) SuspendedAt() *time.Time {
	return t.suspendedAt
}

// CreatedAt returns the signup timestamp.
func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

// IsOperational reports whether resolution may hand requests to this tenant.
// An inactive or suspended tenant is equivalent to "not found" for every
// resolution step.
func (t *Tenant) IsOperational() bool {
	return t.active && t.suspendedAt == nil
}

// SetPrimaryDomain assigns a custom domain to the tenant.
// The domain is normalized to lowercase; it must contain at least one dot and
// no spaces or scheme prefix.
func (t *Tenant) SetPrimaryDomain(domain string) error {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" || !strings.Contains(normalized, ".") ||
		strings.ContainsAny(normalized, " /:") {
		return ErrPrimaryDomainIsInvalid
	}

	t.primaryDomain = normalized
	return nil
}

// Deactivate marks the account inactive. Idempotent.
func (t *Tenant) Deactivate() {
	t.active = false
}

// Suspend marks the account suspended at the given time.
// A later call does not move an existing suspension timestamp.
func (t *Tenant) Suspend(at time.Time) {
	if t.suspendedAt != nil {
		return
	}
	t.suspendedAt = &at
}

func (t *Tenant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	t.id = id
	return nil
}

func (t *Tenant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	t.name = name
	return nil
}

func (t *Tenant) setSubdomain(subdomain string) error {
	normalized := strings.ToLower(strings.TrimSpace(subdomain))
	if normalized == "" {
		return ErrSubdomainIsRequired
	}

	for _, r := range normalized {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ErrSubdomainIsInvalid
		}
	}

	t.subdomain = normalized
	return nil
}
