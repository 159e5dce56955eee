package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Metrics receives job outcomes. *metrics.Collector implements it.
type Metrics interface {
	JobRun(job string, err error)
	ObserveSessionsExpired(n int)
	ObserveJourneysDeactivated(n int)
}

type noopMetrics struct{}

func (noopMetrics) JobRun(string, error)         {}
func (noopMetrics) ObserveSessionsExpired(int)     {}
func (noopMetrics) ObserveJourneysDeactivated(int) {}

// schedule runs one function on a cron spec, each run bounded by timeout.
type schedule struct {
	name    string
	spec    string
	timeout time.Duration
	run     func(ctx context.Context) (int, error)
	metrics Metrics
	logger  *slog.Logger
	cron    *cron.Cron
}

func newSchedule(
	name, spec string,
	timeout time.Duration,
	run func(ctx context.Context) (int, error),
	m Metrics,
	logger *slog.Logger,
) *schedule {
	return &schedule{
		name:    name,
		spec:    spec,
		timeout: timeout,
		run:     run,
		metrics: m,
		logger:  logger,
		cron:    newCron(logger),
	}
}

func (s *schedule) start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Job started", "job", s.name, "schedule", s.spec)
	return nil
}

// stop waits for a running tick to finish.
func (s *schedule) stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Job stopped", "job", s.name)
}

func (s *schedule) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.run(ctx)
	s.metrics.JobRun(s.name, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Job run failed", "job", s.name, "error", err)
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
