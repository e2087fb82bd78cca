package courier

import (
	"context"
	"fmt"
	"strings"
)

// numericProvider implements the shared behavior of the digit-based couriers
// (ACS, Geniki, ELTA, Speedex). Variants differ only in length bounds, the
// sequential-pattern rules and the payload fields their APIs expect.
type numericProvider struct {
	id    string
	label string
	// minDigits and maxDigits bound the normalized voucher length
	minDigits int
	maxDigits int
	// optionalPrefix, when set, may precede an otherwise in-bounds voucher ("00" for ACS)
	optionalPrefix string
	// rejectSameDigitRun rejects vouchers consisting of one repeated digit
	rejectSameDigitRun bool
	// rejectZeroOneRun rejects all-zero and all-one vouchers
	rejectZeroOneRun bool
	// forbiddenSequences are literal test numbers the courier never issues
	forbiddenSequences []string
	// payloadFields are the courier-specific constants added by BuildAPIPayload
	payloadFields map[string]any

	fetcher StatusFetcher
}

func (p *numericProvider) ID() string {
	return p.id
}

func (p *numericProvider) Label() string {
	return p.label
}

// Normalize strips every non-digit character.
func (p *numericProvider) Normalize(voucher string) string {
	return digitsOnly(voucher)
}

// LooksLike reports whether the digit content of the voucher fits the
// courier's length bounds, with or without the optional prefix.
func (p *numericProvider) LooksLike(voucher string) bool {
	digits := p.Normalize(voucher)
	if digits == "" {
		return false
	}

	if n := len(digits); n >= p.minDigits && n <= p.maxDigits {
		return true
	}

	if p.optionalPrefix != "" && strings.HasPrefix(digits, p.optionalPrefix) {
		n := len(digits) - len(p.optionalPrefix)
		return n >= p.minDigits && n <= p.maxDigits
	}

	return false
}

// Validate strictly re-checks the voucher: shape, sequential-pattern rules and
// phone/order collisions. LooksLike passing is not enough for acceptance.
func (p *numericProvider) Validate(voucher string, order OrderContext) MatchResult {
	digits := p.Normalize(voucher)

	if !p.LooksLike(voucher) {
		return p.reject(digits, fmt.Sprintf("expected %d-%d digits", p.minDigits, p.maxDigits))
	}

	if p.rejectSameDigitRun && isSameDigitRun(digits) {
		return p.reject(digits, "repeated single digit")
	}

	if p.rejectZeroOneRun && (isDigitRunOf(digits, '0') || isDigitRunOf(digits, '1')) {
		return p.reject(digits, "repeated single digit")
	}

	for _, seq := range p.forbiddenSequences {
		if digits == seq || strings.TrimPrefix(digits, p.optionalPrefix) == seq {
			return p.reject(digits, "known placeholder number")
		}
	}

	if phone, ok := phoneCollision(digits, order); ok {
		return p.reject(digits, fmt.Sprintf("looks like phone number %s", phone))
	}

	if orderCollision(voucher, digits, order) {
		return p.reject(digits, "matches order number")
	}

	return MatchResult{ProviderID: p.id, NormalizedVoucher: digits, Valid: true}
}

// BuildAPIPayload copies the base payload and adds the courier-specific fields.
func (p *numericProvider) BuildAPIPayload(base map[string]any) map[string]any {
	payload := make(map[string]any, len(base)+len(p.payloadFields)+1)
	for k, v := range base {
		payload[k] = v
	}
	for k, v := range p.payloadFields {
		payload[k] = v
	}
	payload["courier"] = p.id
	return payload
}

// FetchTrackingStatus delegates the outbound call to the injected fetcher.
func (p *numericProvider) FetchTrackingStatus(ctx context.Context, voucher string) (StatusResult, error) {
	return p.fetcher.FetchStatus(ctx, p.id, p.Normalize(voucher))
}

func (p *numericProvider) reject(normalized, reason string) MatchResult {
	return MatchResult{ProviderID: p.id, NormalizedVoucher: normalized, Reason: reason}
}

// digitsOnly strips every rune outside '0'..'9'.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isSameDigitRun reports whether s consists of one digit repeated.
func isSameDigitRun(s string) bool {
	if s == "" {
		return false
	}
	return isDigitRunOf(s, s[0])
}

// isDigitRunOf reports whether s consists solely of the digit d.
func isDigitRunOf(s string, d byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != d {
			return false
		}
	}
	return true
}

// phoneCollision reports whether the voucher digits and either of the order's
// phone numbers contain one another. Symmetric containment rather than
// equality catches phones stored with country prefixes ("+30 210 1234567" vs
// voucher "2101234567") as well as phones hiding inside a prefixed voucher
// ("002101234567" vs phone "2101234567").
func phoneCollision(digits string, order OrderContext) (string, bool) {
	if digits == "" {
		return "", false
	}
	for _, phone := range []string{order.BillingPhone, order.ShippingPhone} {
		phoneDigits := digitsOnly(phone)
		if phoneDigits == "" {
			continue
		}
		if strings.Contains(phoneDigits, digits) || strings.Contains(digits, phoneDigits) {
			return phone, true
		}
	}
	return "", false
}

// orderCollision reports whether the voucher equals the order's id or number,
// compared both raw and digit-stripped.
func orderCollision(raw, digits string, order OrderContext) bool {
	raw = strings.TrimSpace(raw)
	for _, ref := range []string{order.OrderID, order.OrderNumber} {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if strings.EqualFold(raw, ref) {
			return true
		}
		if refDigits := digitsOnly(ref); refDigits != "" && refDigits == digits {
			return true
		}
	}
	return false
}
