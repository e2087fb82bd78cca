package jobs

import (
	"context"
	"time"

	"tracking/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TrackingPollConfig holds the knobs for one polling sweep.
type TrackingPollConfig struct {
	// Schedule is a cron expression with a seconds field, e.g. "0 * * * * *"
	// for once a minute.
	Schedule string
	// BatchSize caps how many active shipments one sweep picks up.
	BatchSize int
	// Concurrency caps simultaneous courier calls within a sweep.
	Concurrency int
	// CallTimeout bounds each individual courier call.
	CallTimeout time.Duration
}

// TrackingPollJob periodically refreshes tracking statuses for active
// shipments across all tenants. A sweep that is still running when the next
// tick fires is not overlapped; the tick is skipped instead.
type TrackingPollJob struct {
	handler commands.RefreshTrackingStatusesCommandHandler
	config  TrackingPollConfig
	cron    *cron.Cron
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewTrackingPollJob creates the polling job.
// The handler performs the actual sweep; the job only schedules it.
func NewTrackingPollJob(
	handler commands.RefreshTrackingStatusesCommandHandler,
	config TrackingPollConfig,
	logger *zap.Logger,
) *TrackingPollJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingPollJob{
		handler: handler,
		config:  config,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With(zap.String("component", "tracking_poll_job")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules the polling sweep. Returns an error if the schedule
// expression or the sweep parameters are invalid.
func (j *TrackingPollJob) Start() error {
	cmd, err := commands.NewRefreshTrackingStatusesCommand(
		j.config.BatchSize,
		j.config.Concurrency,
		j.config.CallTimeout,
	)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(j.config.Schedule, func() {
		if err := j.handler.Handle(j.ctx, cmd); err != nil {
			j.logger.Error("tracking poll sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("tracking poll job started",
		zap.String("schedule", j.config.Schedule),
		zap.Int("batch_size", j.config.BatchSize))
	return nil
}

// Stop stops the polling job and cancels any in-flight sweep.
func (j *TrackingPollJob) Stop() {
	j.cancel()
	j.cron.Stop()
	j.logger.Info("tracking poll job stopped")
}
