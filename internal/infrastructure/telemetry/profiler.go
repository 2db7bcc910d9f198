package telemetry

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds Pyroscope continuous profiling configuration.
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string // e.g. "http://pyroscope:4040"
	ApplicationName string
}

// Profiler wraps the Pyroscope profiler with lifecycle management.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	config   ProfilerConfig
	mu       sync.Mutex
	stopped  bool
}

// defaultProfileTypes are the profiles collected when profiling is on
var defaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// NewProfiler starts a Pyroscope profiler. A disabled config yields a no-op profiler.
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger, config: cfg}

	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled, using no-op profiler")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          &pyroscopeLogger{logger: logger.Named("pyroscope")},
		Tags:            tags,
		ProfileTypes:    defaultProfileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
	)
	return p, nil
}

// Stop stops the profiler. It is safe to call Stop multiple times.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true

	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	return nil
}

// IsEnabled returns whether profiling is running.
func (p *Profiler) IsEnabled() bool {
	return p.config.Enabled && p.profiler != nil
}

// Profiling label keys attached to request samples
const (
	ProfilingLabelMethod     = "method"
	ProfilingLabelRoute      = "route"
	ProfilingLabelController = "controller"
	ProfilingLabelSupervisor = "supervisor_id"
)

// WithProfilingLabels runs fn with labels attached to the goroutine's
// profiling samples. Empty labels run fn unchanged.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}
	pairs := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		pairs = append(pairs, k, v)
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// pyroscopeLogger adapts zap.Logger to pyroscope.Logger.
type pyroscopeLogger struct {
	logger *zap.Logger
}

func (l *pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Sugar().Infof(format, args...)
}

func (l *pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Sugar().Debugf(format, args...)
}

func (l *pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Sugar().Errorf(format, args...)
}
