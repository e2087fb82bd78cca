package tenancy

import (
	"context"
	"sync"

	"tracking/internal/core/domain/model/tenant"
)

// ResolutionContext memoizes the outcome of tenant resolution for one inbound
// request. The result, including "none", is computed at most once and reused
// by every subsequent call within the request's lifetime. Create one per
// request and discard it when the request ends; never share one across
// requests.
type ResolutionContext struct {
	once   sync.Once
	tenant *tenant.Tenant
	err    error
}

// NewResolutionContext creates an unresolved per-request context.
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{}
}

// Resolve runs the resolver on first call and returns the memoized result on
// every call after that, regardless of the signals passed later.
func (rc *ResolutionContext) Resolve(
	ctx context.Context,
	resolver *Resolver,
	req RequestSignals,
) (*tenant.Tenant, error) {
	rc.once.Do(func() {
		rc.tenant, rc.err = resolver.Resolve(ctx, req)
	})
	return rc.tenant, rc.err
}
