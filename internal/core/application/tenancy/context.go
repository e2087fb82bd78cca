package tenancy

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"

	"go.uber.org/zap"
)

// contextKey is the private key type for the tenant binding.
type contextKey struct{}

// loggerKey is the private key type for the tenant-scoped logger.
type loggerKey struct{}

// Scope is the scoping gate: it binds the resolved tenant into a request's
// context.Context and announces binding changes on the structured logger.
//
// The binding lives in request-scoped context values, never in process-global
// state, so concurrent requests can never observe each other's tenant. All
// downstream data access derives its tenant id from the binding via
// CurrentTenantID; the only way around it is the repository escape hatch,
// which is separately audited.
type Scope struct {
	logger *zap.Logger
}

// NewScope creates a scoping gate logging on the given logger.
func NewScope(logger *zap.Logger) *Scope {
	return &Scope{logger: logger}
}

// Bind returns a context carrying t as the active tenant, replacing any
// previous binding. The tenant id becomes a persistent field of the log
// context: every downstream component logging via LoggerFromContext tags its
// lines with it for the rest of the request.
func (s *Scope) Bind(ctx context.Context, t *tenant.Tenant) context.Context {
	s.logger.Info("tenant bound",
		zap.String("tenant_id", t.ID().String()),
		zap.String("tenant_subdomain", t.Subdomain()))

	ctx = context.WithValue(ctx, contextKey{}, t)
	return context.WithValue(ctx, loggerKey{},
		s.logger.With(zap.String("tenant_id", t.ID().String())))
}

// Clear returns a context with the tenant binding removed. The log context
// reverts to the gate's base logger, so fields attached before binding stay
// intact while the tenant id is dropped.
func (s *Scope) Clear(ctx context.Context) context.Context {
	if t, ok := CurrentTenant(ctx); ok {
		s.logger.Info("tenant binding cleared",
			zap.String("tenant_id", t.ID().String()))
	}

	ctx = context.WithValue(ctx, contextKey{}, (*tenant.Tenant)(nil))
	return context.WithValue(ctx, loggerKey{}, s.logger)
}

// LoggerFromContext returns the tenant-scoped logger bound by the gate, or
// fallback when the context carries none. Components that log inside a
// request use this so their lines pick up the bound tenant id.
func LoggerFromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// CurrentTenant returns the tenant bound to the context, if any.
func CurrentTenant(ctx context.Context) (*tenant.Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(*tenant.Tenant)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// CurrentTenantID returns the bound tenant's id, or ErrTenantNotResolved when
// no tenant is bound. Tenant-scoped operations call this and fail closed.
func CurrentTenantID(ctx context.Context) (kernel.UUID, error) {
	t, ok := CurrentTenant(ctx)
	if !ok {
		return kernel.UUID{}, ErrTenantNotResolved
	}
	return t.ID(), nil
}
