package main

import (
	"context"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
	prom     *telemetry.PrometheusCollector
	logger   *zap.Logger
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, error) {
	tc := cfg.Telemetry
	stack := &telemetryStack{logger: log}

	var err error
	stack.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         tc.ProfilingEnabled,
		ServerAddress:   tc.ProfilingServer,
		ApplicationName: tc.ServiceName,
	}, log)
	if err != nil {
		return nil, err
	}

	stack.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}
	if tc.Enabled && tc.ProfilingEnabled {
		stack.tracer.EnableSpanProfiles()
	}

	stack.meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	stack.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	if tc.PrometheusEnabled {
		stack.prom = telemetry.NewPrometheusCollector("fieldops")
	}
	return stack, nil
}

// shutdown flushes every exporter; failures are logged, not returned
func (s *telemetryStack) shutdown(ctx context.Context) {
	if err := s.logs.Shutdown(ctx); err != nil {
		s.logger.Warn("Failed to shut down logger provider", zap.Error(err))
	}
	if err := s.meter.Shutdown(ctx); err != nil {
		s.logger.Warn("Failed to shut down meter provider", zap.Error(err))
	}
	if err := s.tracer.Shutdown(ctx); err != nil {
		s.logger.Warn("Failed to shut down tracer provider", zap.Error(err))
	}
	if err := s.profiler.Stop(); err != nil {
		s.logger.Warn("Failed to stop profiler", zap.Error(err))
	}
}
