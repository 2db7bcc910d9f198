// Package scheduler runs the daily routing order import.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	routingapp "github.com/fieldops/backend/internal/application/routing"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const lockKeyPrefix = "scheduler:order-import:"

// ImportRunner imports the previous day's routing orders
type ImportRunner interface {
	ImportYesterday(ctx context.Context) (*routingapp.ImportResponse, error)
}

// Locker claims a key for a period; cache.Store satisfies it
type Locker interface {
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ImportTrigger fires the order import whenever the cron schedule comes due.
// With a Locker, at most one instance runs the import per calendar day.
type ImportTrigger struct {
	schedule      cron.Schedule
	spec          string
	checkInterval time.Duration
	jobTimeout    time.Duration
	runner        ImportRunner
	locker        Locker
	logger        *zap.Logger
	now           func() time.Time

	mu      sync.Mutex
	next    time.Time
	last    RunInfo
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	active  sync.Mutex // held for the duration of an import
}

// NewImportTrigger parses cfg.ImportCron and creates a trigger. locker may be nil.
func NewImportTrigger(cfg config.SchedulerConfig, runner ImportRunner, locker Locker, log *zap.Logger) (*ImportTrigger, error) {
	schedule, err := cronParser.Parse(cfg.ImportCron)
	if err != nil {
		return nil, fmt.Errorf("%w: import_cron %q: %v", ErrInvalidConfig, cfg.ImportCron, err)
	}
	checkInterval := cfg.CheckInterval
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportTrigger{
		schedule:      schedule,
		spec:          cfg.ImportCron,
		checkInterval: checkInterval,
		jobTimeout:    jobTimeout,
		runner:        runner,
		locker:        locker,
		logger:        log,
		now:           time.Now,
		last:          RunInfo{Status: JobStatusIdle},
	}, nil
}

// Start begins checking the schedule in the background
func (t *ImportTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = true
	t.next = t.schedule.Next(t.now())
	next := t.next
	ctx, t.cancel = context.WithCancel(ctx)
	t.mu.Unlock()

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Order import scheduler started",
		zap.String("cron", t.spec),
		zap.Time("next_run", next),
		zap.Duration("check_interval", t.checkInterval),
	)
	return nil
}

// Stop cancels the loop and waits for a running import to return
func (t *ImportTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	cancel := t.cancel
	t.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Order import scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the most recent run and the next scheduled time
func (t *ImportTrigger) Status() RunInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := t.last
	if !t.next.IsZero() {
		next := t.next
		info.NextRunAt = &next
	}
	return info
}

func (t *ImportTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick runs the import when the schedule is due and computes the following run time
func (t *ImportTrigger) tick(ctx context.Context) {
	now := t.now()

	t.mu.Lock()
	if t.next.IsZero() {
		t.next = t.schedule.Next(now)
	}
	due := !now.Before(t.next)
	if due {
		t.next = t.schedule.Next(now)
	}
	t.mu.Unlock()

	if !due {
		return
	}
	if err := t.run(ctx, now); err != nil && err != ErrImportAlreadyRunning {
		t.logger.Error("Scheduled order import failed", zap.Error(err))
	}
}

func (t *ImportTrigger) run(ctx context.Context, now time.Time) error {
	if !t.active.TryLock() {
		return ErrImportAlreadyRunning
	}
	defer t.active.Unlock()

	date := now.UTC().Format("2006-01-02")
	if t.locker != nil {
		claimed, err := t.locker.SetIfAbsent(ctx, lockKeyPrefix+date, []byte(now.UTC().Format(time.RFC3339)), 26*time.Hour)
		if err != nil {
			return fmt.Errorf("scheduler: claim import lock: %w", err)
		}
		if !claimed {
			t.mu.Lock()
			t.last = RunInfo{Status: JobStatusSkipped, Date: date}
			t.mu.Unlock()
			t.logger.Info("Order import already claimed by another instance", zap.String("date", date))
			return nil
		}
	}

	t.mu.Lock()
	t.last.start(date, now)
	t.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, t.jobTimeout)
	defer cancel()
	runCtx = logger.WithContext(runCtx, t.logger.With(zap.String("job", "order_import"), zap.String("date", date)))

	resp, err := t.runner.ImportYesterday(runCtx)

	t.mu.Lock()
	t.last.finish(err, t.now())
	t.mu.Unlock()

	if err != nil {
		return err
	}
	t.logger.Info("Scheduled order import finished",
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("images", resp.Images),
	)
	return nil
}
