package jobs

import (
	"context"
	"log/slog"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
)

const (
	SessionExpiryJobName     = "session_expiry"
	SessionExpirySchedule    = "@every 1m"
	DefaultSessionBatchSize  = 500
	sessionExpiryRunTimeout  = 30 * time.Second
	maxSessionBatchesPerTick = 20
)

type expireSessionsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireSessionsCommand) (int, error)
}

// SessionExpiryJob ends sessions that went idle past their expiry. Each tick
// drains full batches until a short one comes back.
type SessionExpiryJob struct {
	handler   expireSessionsHandler
	batchSize int
	metrics   Metrics
	logger    *slog.Logger
	sched     *schedule
}

func NewSessionExpiryJob(handler expireSessionsHandler, batchSize int, m Metrics, logger *slog.Logger) *SessionExpiryJob {
	if batchSize <= 0 {
		batchSize = DefaultSessionBatchSize
	}
	if m == nil {
		m = noopMetrics{}
	}
	logger = loggerOrDefault(logger).With("component", "session_expiry_job")

	j := &SessionExpiryJob{
		handler:   handler,
		batchSize: batchSize,
		metrics:   m,
		logger:    logger,
	}
	j.sched = newSchedule(SessionExpiryJobName, SessionExpirySchedule, sessionExpiryRunTimeout, j.RunOnce, m, logger)
	return j
}

// RunOnce performs one sweep and returns how many sessions were ended.
func (j *SessionExpiryJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewExpireSessionsCommand(j.batchSize)
	if err != nil {
		return 0, err
	}

	total := 0
	for range maxSessionBatchesPerTick {
		n, handleErr := j.handler.Handle(ctx, cmd)
		total += n
		if handleErr != nil {
			j.metrics.ObserveSessionsExpired(total)
			return total, handleErr
		}
		if n < j.batchSize {
			break
		}
	}

	j.metrics.ObserveSessionsExpired(total)
	if total > 0 {
		j.logger.InfoContext(ctx, "Expired idle sessions", "count", total)
	}
	return total, nil
}

func (j *SessionExpiryJob) Start() error {
	return j.sched.start()
}

func (j *SessionExpiryJob) Stop() {
	j.sched.stop()
}
