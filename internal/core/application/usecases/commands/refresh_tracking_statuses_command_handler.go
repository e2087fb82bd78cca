package commands

import (
	"context"
	"errors"
	"sync"
	"time"

	"tracking/internal/core/domain/model/courier"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const statusFetchMaxRetries = 2

// RefreshTrackingStatusesCommandHandler runs one cross-tenant polling sweep:
// pick up active shipments, ask each one's courier API for the current status
// and persist the transitions.
//
// This is the only code path that reads shipments without a tenant scope, and
// every sweep records a scope-bypass audit event before touching the data.
// Courier calls run under a bounded worker pool; one slow or failing courier
// must not stall the rest of the batch.
type RefreshTrackingStatusesCommandHandler struct {
	uowFactory ShipmentUoWFactory
	fetcher    courier.StatusFetcher
	audit      ports.AuditSink
	logger     *zap.Logger
}

// NewRefreshTrackingStatusesCommandHandler creates a handler for polling sweeps.
func NewRefreshTrackingStatusesCommandHandler(
	uowFactory ShipmentUoWFactory,
	fetcher courier.StatusFetcher,
	audit ports.AuditSink,
	logger *zap.Logger,
) RefreshTrackingStatusesCommandHandler {
	return RefreshTrackingStatusesCommandHandler{
		uowFactory: uowFactory,
		fetcher:    fetcher,
		audit:      audit,
		logger:     logger,
	}
}

// Handle processes one polling sweep.
// Per-shipment failures are logged and skipped so the sweep always makes
// progress; only listing failures and context cancellation abort it.
func (h *RefreshTrackingStatusesCommandHandler) Handle(
	ctx context.Context,
	cmd RefreshTrackingStatusesCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	shipments, err := h.listActive(ctx, cmd.BatchSize())
	if err != nil {
		return err
	}
	if len(shipments) == 0 {
		return nil
	}

	h.recordScopeBypass(ctx, len(shipments))

	sem := make(chan struct{}, cmd.Concurrency())
	var wg sync.WaitGroup

	for _, s := range shipments {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(s *shipment.Shipment) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := h.refreshOne(ctx, s, cmd.CallTimeout()); err != nil {
				h.logger.Warn("tracking status refresh failed",
					zap.String("shipment_id", s.ID().String()),
					zap.String("tenant_id", s.TenantID().String()),
					zap.String("courier_id", s.CourierID()),
					zap.Error(err))
			}
		}(s)
	}

	wg.Wait()
	return ctx.Err()
}

// listActive reads the sweep's working set through the repository's
// cross-tenant escape hatch.
func (h *RefreshTrackingStatusesCommandHandler) listActive(
	ctx context.Context,
	limit int,
) ([]*shipment.Shipment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipments, err := uow.ShipmentRepository().ListActiveWithoutTenantScope(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return shipments, nil
}

func (h *RefreshTrackingStatusesCommandHandler) recordScopeBypass(ctx context.Context, count int) {
	event := ports.AuditEvent{
		ID:         kernel.NewUUID(),
		Action:     ports.AuditActionScopeBypass,
		ActorID:    "tracking-poller",
		OccurredAt: time.Now().UTC(),
	}
	if err := h.audit.Record(ctx, event); err != nil {
		h.logger.Warn("audit sink rejected scope bypass event",
			zap.Int("shipments", count),
			zap.Error(err))
	}
}

// refreshOne fetches one shipment's current status and persists the resulting
// transition. Courier unavailability is retried with exponential backoff; any
// other fetch error is permanent for this sweep.
func (h *RefreshTrackingStatusesCommandHandler) refreshOne(
	ctx context.Context,
	s *shipment.Shipment,
	callTimeout time.Duration,
) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var result courier.StatusResult
	operation := func() error {
		var fetchErr error
		result, fetchErr = h.fetcher.FetchStatus(callCtx, s.CourierID(), s.Voucher())
		if fetchErr != nil && !errors.Is(fetchErr, errs.ErrCourierAPIUnavailable) {
			return backoff.Permanent(fetchErr)
		}
		return fetchErr
	}

	policy := backoff.WithMaxRetries(
		backoff.WithContext(backoff.NewExponentialBackOff(), callCtx),
		statusFetchMaxRetries,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}

	next, err := deliveryStateToStatus(result.State)
	if err != nil {
		return err
	}

	if err = s.ApplyTrackingStatus(next, result.Description, time.Now().UTC()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Update(ctx, s.TenantID(), s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func deliveryStateToStatus(state courier.DeliveryState) (shipment.Status, error) {
	switch state {
	case courier.StatePending:
		return shipment.Registered, nil
	case courier.StateInTransit:
		return shipment.InTransit, nil
	case courier.StateDelivered:
		return shipment.Delivered, nil
	case courier.StateFailed:
		return shipment.Failed, nil
	default:
		return shipment.Unknown, errs.NewValueIsInvalidError("delivery state")
	}
}
