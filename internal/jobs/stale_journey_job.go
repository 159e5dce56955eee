package jobs

import (
	"context"
	"log/slog"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
)

const (
	StaleJourneyJobName    = "stale_journey"
	StaleJourneySchedule   = "@hourly"
	staleJourneyRunTimeout = 2 * time.Minute
)

type deactivateStaleJourneysHandler interface {
	Handle(ctx context.Context, cmd commands.DeactivateStaleJourneysCommand) (int, error)
}

// StaleJourneyJob deactivates journeys whose date has passed so they stop
// showing up in route matching.
type StaleJourneyJob struct {
	handler deactivateStaleJourneysHandler
	metrics Metrics
	logger  *slog.Logger
	sched   *schedule
}

func NewStaleJourneyJob(handler deactivateStaleJourneysHandler, m Metrics, logger *slog.Logger) *StaleJourneyJob {
	if m == nil {
		m = noopMetrics{}
	}
	logger = loggerOrDefault(logger).With("component", "stale_journey_job")

	j := &StaleJourneyJob{handler: handler, metrics: m, logger: logger}
	j.sched = newSchedule(StaleJourneyJobName, StaleJourneySchedule, staleJourneyRunTimeout, j.RunOnce, m, logger)
	return j
}

func (j *StaleJourneyJob) RunOnce(ctx context.Context) (int, error) {
	n, err := j.handler.Handle(ctx, commands.NewDeactivateStaleJourneysCommand())
	if err != nil {
		return 0, err
	}

	j.metrics.ObserveJourneysDeactivated(n)
	if n > 0 {
		j.logger.InfoContext(ctx, "Deactivated past journeys", "count", n)
	}
	return n, nil
}

func (j *StaleJourneyJob) Start() error {
	return j.sched.start()
}

func (j *StaleJourneyJob) Stop() {
	j.sched.stop()
}
