package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// Domain errors for shipment operations.
var (
	// ErrVoucherIsRequired is returned when attempting to create a shipment without a voucher.
	ErrVoucherIsRequired = errs.NewValueIsRequiredError("voucher")
	// ErrCourierIsRequired is returned when attempting to create a shipment without a courier id.
	ErrCourierIsRequired = errs.NewValueIsRequiredError("courier")
	// ErrShipmentIsNotConstructed is returned when using an improperly initialized Shipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")
)

// Shipment represents one tracked parcel belonging to exactly one tenant.
// It is an aggregate root tying an order's voucher to the courier integration
// that will be polled for its status.
//
// The central invariant of the whole platform lives here: a shipment always
// carries the tenant id it belongs to, and every read/write path is filtered
// by it. A shipment with a zero tenant id is invalid.
//
// Key responsibilities:
//   - Holding the accepted, normalized voucher and the courier it resolved to
//   - Advancing the delivery status as courier APIs report progress
//   - Remembering order context (order number, phones) for audit and re-validation
type Shipment struct {
	// id uniquely identifies the shipment
	id kernel.UUID
	// tenantID is the owning tenant; mandatory on every read/write path
	tenantID kernel.UUID
	// orderNumber is the upstream shop's order reference
	orderNumber string
	// voucher is the normalized tracking number accepted by voucher resolution
	voucher string
	// courierID names the courier provider the voucher resolved to
	courierID string
	// billingPhone and shippingPhone are kept for collision re-validation
	billingPhone  string
	shippingPhone string
	// status is the current delivery lifecycle state
	status Status
	// statusDescription is the courier's last human-readable status line
	statusDescription string
	// statusCheckedAt records the last successful courier poll
	statusCheckedAt *time.Time
	// guard ensures the shipment was properly constructed
	guard guard.ConstructorGuard
}

// NewShipment creates a shipment in Registered status.
// The voucher must already be normalized and accepted by voucher resolution;
// this constructor only enforces presence, not courier format rules.
func NewShipment(
	id, tenantID kernel.UUID,
	orderNumber, voucher, courierID, billingPhone, shippingPhone string,
) (*Shipment, error) {
	s := &Shipment{
		orderNumber:   strings.TrimSpace(orderNumber),
		billingPhone:  strings.TrimSpace(billingPhone),
		shippingPhone: strings.TrimSpace(shippingPhone),
		status:        Registered,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setTenantID(tenantID),
		s.setVoucher(voucher),
		s.setCourierID(courierID),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreShipment reconstructs a shipment aggregate from persistent storage,
// preserving its delivery status and last poll metadata.
func RestoreShipment(
	id, tenantID kernel.UUID,
	orderNumber, voucher, courierID, billingPhone, shippingPhone string,
	status Status,
	statusDescription string,
	statusCheckedAt *time.Time,
) (*Shipment, error) {
	s := &Shipment{
		orderNumber:       strings.TrimSpace(orderNumber),
		billingPhone:      strings.TrimSpace(billingPhone),
		shippingPhone:     strings.TrimSpace(shippingPhone),
		statusDescription: statusDescription,
		statusCheckedAt:   statusCheckedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setTenantID(tenantID),
		s.setVoucher(voucher),
		s.setCourierID(courierID),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	s.status = status

	return s, nil
}

// Validate ensures the shipment was created through a constructor.
func (s *Shipment) Validate() error {
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

// IsEqual compares shipments by identity.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return s.id.IsEqual(other.id)
}

// ID returns the shipment identity.
func (s *Shipment) ID() kernel.UUID {
	return s.id
}

// TenantID returns the owning tenant's identity.
func (s *Shipment) TenantID() kernel.UUID {
	return s.tenantID
}

// OrderNumber returns the upstream order reference.
func (s *Shipment) OrderNumber() string {
	return s.orderNumber
}

// Voucher returns the normalized tracking number.
func (s *Shipment) Voucher() string {
	return s.voucher
}

// CourierID returns the id of the courier provider the voucher resolved to.
func (s *Shipment) CourierID() string {
	return s.courierID
}

// BillingPhone returns the order's billing phone, or "".
func (s *Shipment) BillingPhone() string {
	return s.billingPhone
}

// ShippingPhone returns the order's shipping phone, or "".
func (s *Shipment) ShippingPhone() string {
	return s.shippingPhone
}

// Status returns the current delivery lifecycle state.
func (s *Shipment) Status() Status {
	return s.status
}

// StatusDescription returns the courier's last status line.
func (s *Shipment) StatusDescription() string {
	return s.statusDescription
}

// StatusCheckedAt returns the time of the last successful poll, or nil.
func (s *Shipment) StatusCheckedAt() *time.Time {
	return s.statusCheckedAt
}

// ApplyTrackingStatus advances the shipment after a successful courier poll.
// A repeat of the current status refreshes the description and poll timestamp;
// an illegal transition (for example out of a terminal state) is rejected.
func (s *Shipment) ApplyTrackingStatus(next Status, description string, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if next != s.status && !s.status.CanTransitionTo(next) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot transition from %s to %s", s.status, next))
	}

	s.status = next
	s.statusDescription = description
	s.statusCheckedAt = &at
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.id = id
	return nil
}

func (s *Shipment) setTenantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.tenantID = id
	return nil
}

func (s *Shipment) setVoucher(voucher string) error {
	if strings.TrimSpace(voucher) == "" {
		return ErrVoucherIsRequired
	}

	s.voucher = strings.TrimSpace(voucher)
	return nil
}

func (s *Shipment) setCourierID(courierID string) error {
	if strings.TrimSpace(courierID) == "" {
		return ErrCourierIsRequired
	}

	s.courierID = strings.TrimSpace(courierID)
	return nil
}
