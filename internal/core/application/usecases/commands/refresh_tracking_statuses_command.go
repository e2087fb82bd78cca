package commands

import (
	"errors"
	"time"

	"tracking/internal/pkg/guard"
)

var (
	ErrRefreshTrackingStatusesCommandIsNotConstructed = errors.New(
		"RefreshTrackingStatusesCommand must be created via NewRefreshTrackingStatusesCommand constructor",
	)
	ErrBatchSizeIsInvalid   = errors.New("batch size must be greater than 0")
	ErrConcurrencyIsInvalid = errors.New("concurrency must be greater than 0")
	ErrCallTimeoutIsInvalid = errors.New("call timeout must be greater than 0")
)

// RefreshTrackingStatusesCommand represents one polling sweep over active
// shipments: how many to pick up, how many courier calls may run in parallel
// and how long each call may take.
type RefreshTrackingStatusesCommand struct { //nolint:recvcheck //using for validation
	batchSize   int
	concurrency int
	callTimeout time.Duration

	guard guard.ConstructorGuard
}

// NewRefreshTrackingStatusesCommand creates a command for one polling sweep.
// All three knobs must be positive.
func NewRefreshTrackingStatusesCommand(
	batchSize, concurrency int,
	callTimeout time.Duration,
) (RefreshTrackingStatusesCommand, error) {
	cmd := RefreshTrackingStatusesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBatchSize(batchSize),
		cmd.setConcurrency(concurrency),
		cmd.setCallTimeout(callTimeout),
	); err != nil {
		return RefreshTrackingStatusesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRefreshTrackingStatusesCommandIsNotConstructed if validation fails.
func (c RefreshTrackingStatusesCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingStatusesCommandIsNotConstructed)
}

// BatchSize returns the maximum number of shipments one sweep picks up.
func (c RefreshTrackingStatusesCommand) BatchSize() int {
	return c.batchSize
}

// Concurrency returns the maximum number of simultaneous courier calls.
func (c RefreshTrackingStatusesCommand) Concurrency() int {
	return c.concurrency
}

// CallTimeout returns the deadline applied to each courier call.
func (c RefreshTrackingStatusesCommand) CallTimeout() time.Duration {
	return c.callTimeout
}

func (c *RefreshTrackingStatusesCommand) setBatchSize(batchSize int) error {
	if batchSize <= 0 {
		return ErrBatchSizeIsInvalid
	}

	c.batchSize = batchSize
	return nil
}

func (c *RefreshTrackingStatusesCommand) setConcurrency(concurrency int) error {
	if concurrency <= 0 {
		return ErrConcurrencyIsInvalid
	}

	c.concurrency = concurrency
	return nil
}

func (c *RefreshTrackingStatusesCommand) setCallTimeout(callTimeout time.Duration) error {
	if callTimeout <= 0 {
		return ErrCallTimeoutIsInvalid
	}

	c.callTimeout = callTimeout
	return nil
}
