package commands

import (
	"context"
	"fmt"

	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/domain/model/courier"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/domain/services"
)

// VoucherRejectedError reports that a courier claimed the voucher's shape but
// refused it on strict validation (phone collision, order-number collision,
// placeholder sequence). The reason is safe to surface to the shop operator.
type VoucherRejectedError struct {
	ProviderID string
	Reason     string
}

func (e *VoucherRejectedError) Error() string {
	return fmt.Sprintf("voucher rejected by %s: %s", e.ProviderID, e.Reason)
}

// RegisterShipmentCommandHandler handles shipment registration.
// Classifies the raw voucher against the courier catalog, then persists the
// shipment into the calling tenant's partition.
//
// The owning tenant comes from the request-scoped tenant binding; there is no
// way to register a shipment without a resolved tenant.
//
// Example:
//
//	handler := NewRegisterShipmentCommandHandler(uowFactory, resolver)
//	cmd, _ := NewRegisterShipmentCommand(kernel.NewUUID(), "S-1042", "0012345678", "", "", "")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("shipment registration failed: %w", err)
//	}
type RegisterShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	resolver   services.VoucherResolver
}

// NewRegisterShipmentCommandHandler creates a handler for shipment registration.
// Requires a ShipmentUoWFactory for transactional persistence and the voucher
// resolver for courier classification.
func NewRegisterShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	resolver services.VoucherResolver,
) RegisterShipmentCommandHandler {
	return RegisterShipmentCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
	}
}

// Handle processes the shipment registration command.
// Resolves the voucher to a courier provider, rejects unrecognized or
// colliding vouchers, and persists the accepted shipment transactionally.
// Returns services.ErrVoucherFormatUnrecognized when no courier claims the
// voucher and a VoucherRejectedError when a courier refuses it.
func (h *RegisterShipmentCommandHandler) Handle(ctx context.Context, cmd RegisterShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	tenantID, err := tenancy.CurrentTenantID(ctx)
	if err != nil {
		return err
	}

	match, err := h.resolver.Resolve(cmd.RawVoucher(), cmd.ClaimedCourier(), courier.OrderContext{
		OrderNumber:   cmd.OrderNumber(),
		BillingPhone:  cmd.BillingPhone(),
		ShippingPhone: cmd.ShippingPhone(),
	})
	if err != nil {
		return err
	}
	if !match.Valid {
		return &VoucherRejectedError{ProviderID: match.ProviderID, Reason: match.Reason}
	}

	s, err := shipment.NewShipment(
		cmd.ShipmentID(),
		tenantID,
		cmd.OrderNumber(),
		match.NormalizedVoucher,
		match.ProviderID,
		cmd.BillingPhone(),
		cmd.ShippingPhone(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Add(ctx, tenantID, s); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
