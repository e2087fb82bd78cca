package courier

import (
	"context"
)

// DeliveryState is the normalized delivery state a courier API reports for a
// voucher. Adapters translate courier-specific status codes into these values.
type DeliveryState string

const (
	// StatePending means the courier accepted the voucher but reported no movement yet.
	StatePending DeliveryState = "pending"
	// StateInTransit means the parcel is moving through the courier's network.
	StateInTransit DeliveryState = "in_transit"
	// StateDelivered means the courier confirmed delivery.
	StateDelivered DeliveryState = "delivered"
	// StateFailed means the courier reported a permanent delivery failure.
	StateFailed DeliveryState = "failed"
)

// StatusResult is the outcome of one tracking-status fetch against a courier API.
type StatusResult struct {
	// CourierID names the provider that produced the result.
	CourierID string
	// Voucher is the normalized voucher the status belongs to.
	Voucher string
	// State is the normalized delivery state.
	State DeliveryState
	// Description is the courier's human-readable status line.
	Description string
}

// MatchResult is the outcome of validating a voucher against one provider.
// It is produced per resolution attempt and consumed immediately; it is never
// persisted. An invalid result carries a human-readable Reason and is data,
// not an error: callers decide whether to log-and-skip or hard-reject.
type MatchResult struct {
	// ProviderID names the provider that claimed the voucher.
	ProviderID string
	// NormalizedVoucher is the voucher after the provider's normalization.
	NormalizedVoucher string
	// Valid reports whether the provider accepts the voucher.
	Valid bool
	// Reason explains a rejection; empty when Valid.
	Reason string
}

// OrderContext carries the order attributes used to reject voucher false
// positives: a billing phone that happens to be ten digits long must never be
// treated as a tracking number.
type OrderContext struct {
	// OrderID is the upstream order's identifier, if the source supplied one.
	OrderID string
	// OrderNumber is the upstream shop's order reference.
	OrderNumber string
	// BillingPhone and ShippingPhone come from the order's addresses.
	BillingPhone  string
	ShippingPhone string
}

// StatusFetcher performs the outbound tracking-status call for a provider.
// The HTTP adapter implements it; providers stay free of transport concerns.
type StatusFetcher interface {
	// FetchStatus retrieves the current status of a voucher from the courier
	// identified by courierID. Transient failures (network, courier 5xx) are
	// reported via errs.ErrCourierAPIUnavailable so the polling scheduler can
	// retry; any other error is permanent.
	FetchStatus(ctx context.Context, courierID, voucher string) (StatusResult, error)
}

// Provider is the capability set shared by all courier integrations.
//
// Providers are intentionally unaware of each other: adding a courier means
// adding one implementation and registering it, nothing else changes. LooksLike
// is a fast, loose shape check used by priority scanning; Validate re-checks
// collisions strictly before a match is accepted. This two-phase split is
// deliberate.
type Provider interface {
	// ID returns the stable provider id ("acs", "geniki", ...).
	ID() string
	// Label returns the human-readable courier name.
	Label() string
	// LooksLike reports whether the raw voucher matches this courier's format shape.
	LooksLike(voucher string) bool
	// Normalize converts a raw voucher into the form this courier's API expects.
	Normalize(voucher string) string
	// Validate strictly checks a voucher against the courier's rules and the
	// order context. A shape match that collides with a phone or order number
	// comes back Valid=false with a reason.
	Validate(voucher string, order OrderContext) MatchResult
	// BuildAPIPayload shapes a base payload for this courier's API, adding the
	// courier-specific fields the integration requires.
	BuildAPIPayload(base map[string]any) map[string]any
	// FetchTrackingStatus retrieves the voucher's current status from the
	// courier API. Expected to be called from the background poller, never
	// inline in the request path.
	FetchTrackingStatus(ctx context.Context, voucher string) (StatusResult, error)
}
