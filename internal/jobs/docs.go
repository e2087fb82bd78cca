// Package jobs provides scheduled background tasks for the tracking platform.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the tracking service.
//
// # Available Jobs
//
// 1. TrackingPollJob - Periodically refreshes tracking statuses for active
// shipments across all tenants by calling the courier APIs.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(refreshHandler, pollConfig, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The poll schedule is a six-field cron expression (seconds included), so
// "0 * * * * *" runs once a minute. A sweep still in flight when the next
// tick fires is skipped rather than overlapped.
//
// # Error Handling
//
// - Individual courier call failures are handled inside the sweep: transient
// errors are retried, permanent ones skip the shipment.
// - A sweep that fails as a whole is logged and retried on the next tick.
// - Failed job starts stop any already running jobs.
package jobs
