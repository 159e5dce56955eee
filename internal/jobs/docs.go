// Package jobs provides scheduled background tasks for the parcel service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. SessionExpiryJob - Runs every minute and ends sessions idle past their expiry
// 2. StaleJourneyJob - Runs hourly and deactivates journeys dated before today
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireSessionsHandler, deactivateJourneysHandler, 500, collector, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed run is logged and counted; the next tick tries again
// - A run still in progress when the next tick fires is skipped
// - Panics inside a run are recovered and logged
// - Failed job starts will stop any already running jobs
package jobs
