package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type expireFunc func(ctx context.Context, cmd commands.ExpireSessionsCommand) (int, error)

func (f expireFunc) Handle(ctx context.Context, cmd commands.ExpireSessionsCommand) (int, error) {
	return f(ctx, cmd)
}

type deactivateFunc func(ctx context.Context, cmd commands.DeactivateStaleJourneysCommand) (int, error)

func (f deactivateFunc) Handle(ctx context.Context, cmd commands.DeactivateStaleJourneysCommand) (int, error) {
	return f(ctx, cmd)
}

type countingMetrics struct {
	runs        map[string][]error
	expired     int
	deactivated int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{runs: map[string][]error{}}
}

func (m *countingMetrics) JobRun(job string, err error)     { m.runs[job] = append(m.runs[job], err) }
func (m *countingMetrics) ObserveSessionsExpired(n int)     { m.expired += n }
func (m *countingMetrics) ObserveJourneysDeactivated(n int) { m.deactivated += n }

func TestSessionExpiryJob_DrainsFullBatches(t *testing.T) {
	batches := []int{3, 3, 1}
	calls := 0
	m := newCountingMetrics()

	job := NewSessionExpiryJob(expireFunc(func(_ context.Context, cmd commands.ExpireSessionsCommand) (int, error) {
		assert.Equal(t, 3, cmd.BatchSize())
		n := batches[calls]
		calls++
		return n, nil
	}), 3, m, nil)

	n, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 7, m.expired)
}

func TestSessionExpiryJob_StopsOnError(t *testing.T) {
	calls := 0
	job := NewSessionExpiryJob(expireFunc(func(context.Context, commands.ExpireSessionsCommand) (int, error) {
		calls++
		if calls == 2 {
			return 0, errors.New("could not serialize access")
		}
		return 2, nil
	}), 2, nil, nil)

	n, err := job.RunOnce(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, calls)
}

func TestSessionExpiryJob_DefaultBatchSize(t *testing.T) {
	job := NewSessionExpiryJob(expireFunc(func(_ context.Context, cmd commands.ExpireSessionsCommand) (int, error) {
		assert.Equal(t, DefaultSessionBatchSize, cmd.BatchSize())
		return 0, nil
	}), 0, nil, nil)

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStaleJourneyJob_RunOnce(t *testing.T) {
	m := newCountingMetrics()
	job := NewStaleJourneyJob(deactivateFunc(func(_ context.Context, cmd commands.DeactivateStaleJourneysCommand) (int, error) {
		require.NoError(t, cmd.Validate())
		return 4, nil
	}), m, nil)

	n, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, m.deactivated)
}

func TestSchedule_TickRecordsOutcome(t *testing.T) {
	m := newCountingMetrics()
	failing := newSchedule("failing_job", "@hourly", time.Second, func(context.Context) (int, error) {
		return 0, errors.New("db down")
	}, m, loggerOrDefault(nil))

	failing.tick()

	require.Len(t, m.runs["failing_job"], 1)
	assert.Error(t, m.runs["failing_job"][0])
}

func TestJobManager_StartStopLeavesNoGoroutines(t *testing.T) {
	jm := NewJobManager(
		expireFunc(func(context.Context, commands.ExpireSessionsCommand) (int, error) { return 0, nil }),
		deactivateFunc(func(context.Context, commands.DeactivateStaleJourneysCommand) (int, error) { return 0, nil }),
		10, nil, nil,
	)

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

func TestSchedule_InvalidSpec(t *testing.T) {
	s := newSchedule("broken", "every now and then", time.Second, func(context.Context) (int, error) {
		return 0, nil
	}, noopMetrics{}, loggerOrDefault(nil))

	require.Error(t, s.start())
}
