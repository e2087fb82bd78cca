package services

import (
	"errors"
	"strings"

	"tracking/internal/core/domain/model/courier"
	"tracking/internal/pkg/errs"
)

// Resolution errors for voucher dispatch.
var (
	// ErrVoucherIsRequired is returned when the raw voucher is empty.
	ErrVoucherIsRequired = errs.NewValueIsRequiredError("voucher")
	// ErrVoucherFormatUnrecognized is returned when no provider's shape check
	// claims the voucher. Callers must treat this as a rejection, never as a
	// silent fall-through to the Generic provider.
	ErrVoucherFormatUnrecognized = errors.New("unrecognized voucher format")
)

// VoucherResolver is a domain service that determines which courier provider a
// raw voucher string belongs to.
//
// Key responsibilities:
//   - Preferring an upstream-claimed courier id/label over format heuristics
//   - Scanning providers in the configured priority order (first match wins)
//   - Funnelling every accepted match through the provider's strict Validate
//
// Business rules:
//   - The priority order is the sole tie-break between overlapping shapes;
//     a ten-digit voucher matches both ACS and Speedex, and only the order
//     decides which courier API receives it
//   - Generic scans last as the permissive catch-all and is never used as a
//     skip-ahead default
//   - A shape match that fails Validate is a rejection (Valid=false + reason),
//     not a cue to keep scanning
type VoucherResolver struct {
	registry *courier.Registry
	priority []string
}

// NewVoucherResolver creates a resolver over the given provider catalog.
// An empty priority falls back to courier.DefaultPriority. Priority entries
// without a registered provider are skipped during scans.
func NewVoucherResolver(registry *courier.Registry, priority []string) VoucherResolver {
	if len(priority) == 0 {
		priority = courier.DefaultPriority()
	}
	return VoucherResolver{
		registry: registry,
		priority: priority,
	}
}

// Priority returns the configured scan order.
func (r VoucherResolver) Priority() []string {
	out := make([]string, len(r.priority))
	copy(out, r.priority)
	return out
}

// Resolve determines the provider for a raw voucher.
//
// claimedCourier, when non-empty, is the courier the upstream source already
// named (a webhook field, an order note) and is matched against provider ids
// and labels before any format heuristics run. The heuristic scan is the
// fallback for sources that did not identify their courier.
//
// Returns ErrVoucherFormatUnrecognized when no provider claims the voucher.
// A shape match that fails strict validation is returned as a MatchResult with
// Valid=false and a human-readable reason, not as an error: the caller decides
// whether to log-and-skip or hard-reject.
func (r VoucherResolver) Resolve(
	rawVoucher, claimedCourier string,
	order courier.OrderContext,
) (courier.MatchResult, error) {
	voucher := strings.TrimSpace(rawVoucher)
	if voucher == "" {
		return courier.MatchResult{}, ErrVoucherIsRequired
	}

	if p, ok := r.matchClaimed(claimedCourier); ok {
		return p.Validate(voucher, order), nil
	}

	for _, id := range r.priority {
		p, ok := r.registry.Get(id)
		if !ok {
			continue
		}

		if p.LooksLike(voucher) {
			return p.Validate(voucher, order), nil
		}
	}

	return courier.MatchResult{}, ErrVoucherFormatUnrecognized
}

// matchClaimed resolves an upstream-claimed courier name against provider ids
// and labels, case-insensitively.
func (r VoucherResolver) matchClaimed(claimed string) (courier.Provider, bool) {
	claimed = strings.TrimSpace(claimed)
	if claimed == "" {
		return nil, false
	}

	if p, ok := r.registry.Get(strings.ToLower(claimed)); ok {
		return p, true
	}

	for _, p := range r.registry.All() {
		if strings.EqualFold(p.Label(), claimed) {
			return p, true
		}
	}

	return nil, false
}
