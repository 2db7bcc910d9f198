package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	routingapp "github.com/fieldops/backend/internal/application/routing"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) ImportYesterday(ctx context.Context) (*routingapp.ImportResponse, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &routingapp.ImportResponse{Created: 2, Updated: 1}, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTrigger(t *testing.T, runner ImportRunner, locker Locker, c *clock) *ImportTrigger {
	t.Helper()
	trigger, err := NewImportTrigger(config.SchedulerConfig{ImportCron: "30 2 * * *"}, runner, locker, zap.NewNop())
	require.NoError(t, err)
	trigger.now = c.now
	return trigger
}

func TestNewImportTrigger_InvalidCron(t *testing.T) {
	_, err := NewImportTrigger(config.SchedulerConfig{ImportCron: "every day"}, &countingRunner{}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestImportTrigger_RunsWhenDue(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)}
	runner := &countingRunner{}
	trigger := newTrigger(t, runner, nil, c)

	trigger.tick(ctx)
	assert.Equal(t, int32(0), runner.calls.Load())
	require.NotNil(t, trigger.Status().NextRunAt)
	assert.Equal(t, time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC), *trigger.Status().NextRunAt)

	c.t = c.t.Add(31 * time.Minute)
	trigger.tick(ctx)
	assert.Equal(t, int32(1), runner.calls.Load())

	status := trigger.Status()
	assert.Equal(t, JobStatusSuccess, status.Status)
	assert.Equal(t, "2026-03-01", status.Date)
	assert.Equal(t, time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC), *status.NextRunAt)

	c.t = c.t.Add(time.Minute)
	trigger.tick(ctx)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestImportTrigger_LockAllowsOneInstancePerDay(t *testing.T) {
	ctx := context.Background()
	store := cache.NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()

	c := &clock{t: time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)}
	first, second := &countingRunner{}, &countingRunner{}
	a := newTrigger(t, first, store, c)
	b := newTrigger(t, second, store, c)

	require.NoError(t, a.run(ctx, c.t))
	require.NoError(t, b.run(ctx, c.t))

	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(0), second.calls.Load())
	assert.Equal(t, JobStatusSkipped, b.Status().Status)
}

func TestImportTrigger_RecordsFailure(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)}
	trigger := newTrigger(t, &countingRunner{err: errors.New("routing API down")}, nil, c)

	err := trigger.run(context.Background(), c.t)
	require.Error(t, err)

	status := trigger.Status()
	assert.Equal(t, JobStatusFailed, status.Status)
	assert.Equal(t, "routing API down", status.Error)
	assert.NotNil(t, status.CompletedAt)
}

func TestImportTrigger_StartStop(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	trigger := newTrigger(t, &countingRunner{}, nil, c)

	require.NoError(t, trigger.Start(ctx))
	require.NoError(t, trigger.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
	require.NoError(t, trigger.Stop(stopCtx))
	assert.Equal(t, JobStatusIdle, trigger.Status().Status)
}
