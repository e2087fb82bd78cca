package commands

import (
	"errors"
	"strings"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var (
	ErrRegisterShipmentCommandIsNotConstructed = errors.New(
		"RegisterShipmentCommand must be created via NewRegisterShipmentCommand constructor",
	)
	ErrRawVoucherIsRequired = errors.New("voucher is required")
)

// RegisterShipmentCommand represents a request to register a new shipment for
// tracking. Carries the raw voucher exactly as the upstream shop supplied it;
// courier classification happens inside the handler, never upstream.
//
// Example:
//
//	shipmentID := kernel.NewUUID()
//	cmd, err := NewRegisterShipmentCommand(shipmentID, "S-1042", " 0012345678 ", "", "2101234567", "")
//	if err != nil {
//	    return fmt.Errorf("invalid shipment data: %w", err)
//	}
//
//	handler := NewRegisterShipmentCommandHandler(uowFactory, resolver)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register shipment: %w", err)
//	}
type RegisterShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID     kernel.UUID
	orderNumber    string
	rawVoucher     string
	claimedCourier string
	billingPhone   string
	shippingPhone  string

	guard guard.ConstructorGuard
}

// NewRegisterShipmentCommand creates a command to register a shipment.
// Validates that the shipment ID is valid and the raw voucher is non-blank.
// claimedCourier is optional: a courier name the upstream source already
// supplied, matched before any format heuristics run.
func NewRegisterShipmentCommand(
	shipmentID kernel.UUID,
	orderNumber, rawVoucher, claimedCourier, billingPhone, shippingPhone string,
) (RegisterShipmentCommand, error) {
	cmd := RegisterShipmentCommand{
		orderNumber:    strings.TrimSpace(orderNumber),
		claimedCourier: strings.TrimSpace(claimedCourier),
		billingPhone:   strings.TrimSpace(billingPhone),
		shippingPhone:  strings.TrimSpace(shippingPhone),
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setRawVoucher(rawVoucher),
	); err != nil {
		return RegisterShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterShipmentCommandIsNotConstructed if validation fails.
func (c RegisterShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterShipmentCommandIsNotConstructed)
}

// ShipmentID returns the unique identifier for the shipment.
func (c RegisterShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// OrderNumber returns the upstream shop's order reference.
func (c RegisterShipmentCommand) OrderNumber() string {
	return c.orderNumber
}

// RawVoucher returns the voucher as supplied by the upstream source.
func (c RegisterShipmentCommand) RawVoucher() string {
	return c.rawVoucher
}

// ClaimedCourier returns the courier name the upstream source supplied, if any.
func (c RegisterShipmentCommand) ClaimedCourier() string {
	return c.claimedCourier
}

// BillingPhone returns the order's billing phone number.
func (c RegisterShipmentCommand) BillingPhone() string {
	return c.billingPhone
}

// ShippingPhone returns the order's shipping phone number.
func (c RegisterShipmentCommand) ShippingPhone() string {
	return c.shippingPhone
}

func (c *RegisterShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *RegisterShipmentCommand) setRawVoucher(rawVoucher string) error {
	if strings.TrimSpace(rawVoucher) == "" {
		return ErrRawVoucherIsRequired
	}

	c.rawVoucher = rawVoucher
	return nil
}
