package jobs

import (
	"testing"
	"time"

	"tracking/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTrackingPollJob_Start(t *testing.T) {
	t.Run("rejects invalid sweep parameters before scheduling", func(t *testing.T) {
		job := NewTrackingPollJob(commands.RefreshTrackingStatusesCommandHandler{}, TrackingPollConfig{
			Schedule:    "0 * * * * *",
			BatchSize:   0,
			Concurrency: 4,
			CallTimeout: time.Second,
		}, zap.NewNop())

		err := job.Start()

		assert.ErrorIs(t, err, commands.ErrBatchSizeIsInvalid)
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		job := NewTrackingPollJob(commands.RefreshTrackingStatusesCommandHandler{}, TrackingPollConfig{
			Schedule:    "not a cron expression",
			BatchSize:   50,
			Concurrency: 4,
			CallTimeout: time.Second,
		}, zap.NewNop())

		err := job.Start()

		assert.Error(t, err)
	})

	t.Run("starts and stops with a valid configuration", func(t *testing.T) {
		job := NewTrackingPollJob(commands.RefreshTrackingStatusesCommandHandler{}, TrackingPollConfig{
			Schedule:    "0 0 * * * *",
			BatchSize:   50,
			Concurrency: 4,
			CallTimeout: time.Second,
		}, zap.NewNop())

		require.NoError(t, job.Start())
		job.Stop()
	})
}
