package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	sessionExpiryJob *SessionExpiryJob
	staleJourneyJob  *StaleJourneyJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireSessionsHandler expireSessionsHandler,
	deactivateJourneysHandler deactivateStaleJourneysHandler,
	sessionBatchSize int,
	m Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		sessionExpiryJob: NewSessionExpiryJob(expireSessionsHandler, sessionBatchSize, m, logger),
		staleJourneyJob:  NewStaleJourneyJob(deactivateJourneysHandler, m, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start session expiry job: %w", err)
	}

	if err := jm.staleJourneyJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.sessionExpiryJob.Stop()
		return fmt.Errorf("failed to start stale journey job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.staleJourneyJob.Stop()
	jm.sessionExpiryJob.Stop()
}
