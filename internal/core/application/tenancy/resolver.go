package tenancy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"go.uber.org/zap"
)

// Wire-level contract for the super-admin tenant override.
const (
	// OverrideHeaderName is the header carrying a tenant override id.
	OverrideHeaderName = "X-Tenant-ID"
	// OverrideQueryParam is the query parameter alternative to the header.
	OverrideQueryParam = "tenant_id"
)

// ErrTenantNotResolved is returned when no resolution step produced a tenant.
// Callers must treat it as a hard stop for any tenant-scoped operation and
// reject the request; there is no default tenant to fall back to.
var ErrTenantNotResolved = errors.New("tenant not resolved")

// DefaultReservedSubdomains are host labels that never resolve to a tenant,
// even if a tenant record happens to carry one of them (a configuration error
// resolution still refuses to act on).
func DefaultReservedSubdomains() []string {
	return []string{
		"www", "app", "api", "static", "assets",
		"cdn", "admin", "mail", "ftp", "localhost",
	}
}

// Principal describes the authenticated caller of a request, when any.
type Principal struct {
	// ID and Email identify the user for audit purposes.
	ID    string
	Email string
	// SuperAdmin marks platform operators allowed to override the tenant.
	SuperAdmin bool
	// TenantID is the user's home tenant, when the account belongs to one.
	TenantID *kernel.UUID
}

// RequestSignals are the competing tenant signals extracted from one inbound
// request by the transport layer. The resolver never touches the transport
// directly.
type RequestSignals struct {
	// OverrideHeader and OverrideQuery carry a super-admin tenant override.
	OverrideHeader string
	OverrideQuery  string
	// RouteTenant is a tenant identifier bound earlier in the routing layer,
	// either a canonical id or a subdomain slug.
	RouteTenant string
	// Host is the request's Host header.
	Host string
	// Secure reports whether the request arrived over TLS.
	Secure bool
	// SourceIP and UserAgent describe the caller for audit purposes.
	SourceIP  string
	UserAgent string
	// Principal is the authenticated caller, or nil.
	Principal *Principal
}

// Resolver produces the single authoritative tenant for an inbound request,
// or ErrTenantNotResolved, following a strict precedence chain:
//
//  1. Super-admin override (header or query, canonical id format, transport
//     secure in production, audited); a capability boundary for operators
//  2. Route-bound tenant parameter (id first, then subdomain slug)
//  3. Host header (primary domain exact, then www-stripped, then leftmost
//     label as subdomain skipping reserved names)
//  4. The authenticated principal's home tenant
//
// Failures inside steps 1-4 are non-fatal and fall through to the next step;
// only total failure is reported. Every lookup sees operational tenants only.
// Lookups by key consult the cache first when caching is enabled.
type Resolver struct {
	tenants  ports.TenantRepository
	cache    ports.TenantCache
	cacheTTL *time.Duration
	audit    ports.AuditSink
	logger   *zap.Logger
	// production tightens the override transport requirement to HTTPS
	production bool
	reserved   map[string]struct{}
	now        func() time.Time
}

// NewResolver creates a tenant resolver.
//
// cacheTTL nil disables caching entirely: every lookup hits the store.
// reservedSubdomains nil falls back to DefaultReservedSubdomains. production
// controls whether the super-admin override demands a TLS transport.
func NewResolver(
	tenants ports.TenantRepository,
	cache ports.TenantCache,
	cacheTTL *time.Duration,
	audit ports.AuditSink,
	logger *zap.Logger,
	production bool,
	reservedSubdomains []string,
) *Resolver {
	if reservedSubdomains == nil {
		reservedSubdomains = DefaultReservedSubdomains()
	}
	reserved := make(map[string]struct{}, len(reservedSubdomains))
	for _, s := range reservedSubdomains {
		reserved[strings.ToLower(s)] = struct{}{}
	}

	return &Resolver{
		tenants:    tenants,
		cache:      cache,
		cacheTTL:   cacheTTL,
		audit:      audit,
		logger:     logger,
		production: production,
		reserved:   reserved,
		now:        time.Now,
	}
}

// Resolve walks the precedence chain for the given request signals.
func (r *Resolver) Resolve(ctx context.Context, req RequestSignals) (*tenant.Tenant, error) {
	if t := r.resolveOverride(ctx, req); t != nil {
		return t, nil
	}

	if t := r.resolveRouteParam(ctx, req); t != nil {
		return t, nil
	}

	if t := r.resolveHost(ctx, req); t != nil {
		return t, nil
	}

	if t := r.resolvePrincipal(ctx, req); t != nil {
		return t, nil
	}

	return nil, ErrTenantNotResolved
}

// resolveOverride handles the super-admin impersonation step. A malformed
// override value is silently ignored (falls through, not an error); a
// successful override is audited before it is returned.
func (r *Resolver) resolveOverride(ctx context.Context, req RequestSignals) *tenant.Tenant {
	p := req.Principal
	if p == nil || !p.SuperAdmin {
		return nil
	}

	value, transport := req.OverrideHeader, "header"
	if strings.TrimSpace(value) == "" {
		value, transport = req.OverrideQuery, "query"
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return nil
	}

	if r.production && !req.Secure {
		r.logger.Warn("tenant override refused on insecure transport",
			zap.String("actor_id", p.ID),
			zap.String("source_ip", req.SourceIP))
		return nil
	}

	t := r.lookupByID(ctx, id)
	if t == nil {
		return nil
	}

	event := ports.AuditEvent{
		ID:         kernel.NewUUID(),
		Action:     ports.AuditActionTenantOverride,
		ActorID:    p.ID,
		ActorEmail: p.Email,
		TenantID:   t.ID().String(),
		TenantName: t.Name(),
		SourceIP:   req.SourceIP,
		UserAgent:  req.UserAgent,
		Transport:  transport,
		OccurredAt: r.now(),
	}
	if auditErr := r.audit.Record(ctx, event); auditErr != nil {
		// The sink failing must not block resolution.
		r.logger.Warn("audit sink rejected tenant override event",
			zap.String("tenant_id", t.ID().String()),
			zap.Error(auditErr))
	}

	return t
}

// resolveRouteParam handles a tenant identifier already bound by the routing
// layer: canonical id format first, subdomain slug otherwise.
func (r *Resolver) resolveRouteParam(ctx context.Context, req RequestSignals) *tenant.Tenant {
	value := strings.TrimSpace(req.RouteTenant)
	if value == "" {
		return nil
	}

	if id, err := kernel.UUIDFromString(value); err == nil {
		return r.lookupByID(ctx, id)
	}

	return r.lookupBySubdomain(ctx, strings.ToLower(value))
}

// resolveHost handles domain-based resolution, the common path for B2B access:
// custom primary domain first (with a www-stripped fallback), then the
// leftmost host label as a subdomain unless it is reserved.
func (r *Resolver) resolveHost(ctx context.Context, req RequestSignals) *tenant.Tenant {
	host := normalizeHost(req.Host)
	if host == "" {
		return nil
	}

	if t := r.lookupByDomain(ctx, host); t != nil {
		return t
	}
	if stripped := strings.TrimPrefix(host, "www."); stripped != host {
		if t := r.lookupByDomain(ctx, stripped); t != nil {
			return t
		}
	}

	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return nil
	}
	if _, isReserved := r.reserved[label]; isReserved {
		return nil
	}

	return r.lookupBySubdomain(ctx, label)
}

// resolvePrincipal falls back to the authenticated user's home tenant.
func (r *Resolver) resolvePrincipal(ctx context.Context, req RequestSignals) *tenant.Tenant {
	if req.Principal == nil || req.Principal.TenantID == nil {
		return nil
	}
	return r.lookupByID(ctx, *req.Principal.TenantID)
}

func (r *Resolver) lookupByID(ctx context.Context, id kernel.UUID) *tenant.Tenant {
	return r.lookup(ctx, "id", id.String(), func(ctx context.Context) (*tenant.Tenant, error) {
		return r.tenants.FindOperationalByID(ctx, id)
	})
}

func (r *Resolver) lookupBySubdomain(ctx context.Context, subdomain string) *tenant.Tenant {
	return r.lookup(ctx, "subdomain", subdomain, func(ctx context.Context) (*tenant.Tenant, error) {
		return r.tenants.FindOperationalBySubdomain(ctx, subdomain)
	})
}

func (r *Resolver) lookupByDomain(ctx context.Context, domain string) *tenant.Tenant {
	return r.lookup(ctx, "domain", domain, func(ctx context.Context) (*tenant.Tenant, error) {
		return r.tenants.FindOperationalByDomain(ctx, domain)
	})
}

// lookup wraps one store access with the key cache. Only operational tenants
// are ever cached or returned; misses and store failures both fall through to
// the next resolution step.
func (r *Resolver) lookup(
	ctx context.Context,
	field, value string,
	fetch func(ctx context.Context) (*tenant.Tenant, error),
) *tenant.Tenant {
	key := fmt.Sprintf("tenant:%s:%s", field, value)

	if r.cacheEnabled() {
		if t, ok := r.cache.Get(ctx, key); ok {
			return t
		}
	}

	t, err := fetch(ctx)
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			r.logger.Warn("tenant lookup failed",
				zap.String("field", field),
				zap.String("value", value),
				zap.Error(err))
		}
		return nil
	}

	if !t.IsOperational() {
		return nil
	}

	if r.cacheEnabled() {
		r.cache.Set(ctx, key, t, *r.cacheTTL)
	}

	return t
}

func (r *Resolver) cacheEnabled() bool {
	return r.cache != nil && r.cacheTTL != nil
}

// normalizeHost lowercases the Host header and strips any port and trailing dot.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
