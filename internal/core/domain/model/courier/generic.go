package courier

import (
	"context"
	"fmt"
	"strings"
)

// GenericProviderID is the stable id of the catch-all courier integration.
const GenericProviderID = "generic"

const (
	genericMinLength = 8
	genericMaxLength = 20
)

// GenericProvider is the permissive catch-all for couriers without a dedicated
// integration. It accepts 8-20 alphanumeric-plus-hyphen vouchers and applies
// no phone or order heuristics, which is why it must always scan last.
type GenericProvider struct {
	fetcher StatusFetcher
}

// NewGenericProvider creates the catch-all integration using the given status fetcher.
func NewGenericProvider(fetcher StatusFetcher) *GenericProvider {
	return &GenericProvider{fetcher: fetcher}
}

// ID returns the stable provider id.
func (p *GenericProvider) ID() string {
	return GenericProviderID
}

// Label returns the human-readable courier name.
func (p *GenericProvider) Label() string {
	return "Generic Courier"
}

// Normalize trims surrounding whitespace only; alphanumeric vouchers keep
// their letters and hyphens.
func (p *GenericProvider) Normalize(voucher string) string {
	return strings.TrimSpace(voucher)
}

// LooksLike reports whether the voucher is 8-20 characters of [A-Za-z0-9-].
func (p *GenericProvider) LooksLike(voucher string) bool {
	v := p.Normalize(voucher)
	if len(v) < genericMinLength || len(v) > genericMaxLength {
		return false
	}
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// Validate enforces the length and charset bounds only.
func (p *GenericProvider) Validate(voucher string, _ OrderContext) MatchResult {
	v := p.Normalize(voucher)
	if !p.LooksLike(voucher) {
		return MatchResult{
			ProviderID:        GenericProviderID,
			NormalizedVoucher: v,
			Reason: fmt.Sprintf("expected %d-%d alphanumeric characters",
				genericMinLength, genericMaxLength),
		}
	}
	return MatchResult{ProviderID: GenericProviderID, NormalizedVoucher: v, Valid: true}
}

// BuildAPIPayload copies the base payload and tags it with the provider id.
func (p *GenericProvider) BuildAPIPayload(base map[string]any) map[string]any {
	payload := make(map[string]any, len(base)+1)
	for k, v := range base {
		payload[k] = v
	}
	payload["courier"] = GenericProviderID
	return payload
}

// FetchTrackingStatus delegates the outbound call to the injected fetcher.
func (p *GenericProvider) FetchTrackingStatus(ctx context.Context, voucher string) (StatusResult, error) {
	return p.fetcher.FetchStatus(ctx, GenericProviderID, p.Normalize(voucher))
}
