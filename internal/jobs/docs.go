// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. BackorderReleaseJob - Runs every 30 seconds to return replenished backorders to the pending pool
// 2. VarianceAdjustmentJob - Runs every 5 minutes to apply missing ledger adjustments for approved count entries
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(releaseHandler, adjustHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Both sweeps log failures and retry on the next tick; a failed run never stops the schedule
// - Failed job starts will stop any already running jobs
package jobs
