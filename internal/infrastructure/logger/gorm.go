package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig controls which statements reach the log
type GormConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// LogNotFound logs gorm.ErrRecordNotFound as an error. Lookups that
	// miss are routine here, so this is off by default.
	LogNotFound bool
}

// GormLogger routes GORM statements to zap, tagged with the request id and
// trace of the query's context.
type GormLogger struct {
	logger *zap.Logger
	cfg    GormConfig
}

// NewGormLogger creates a GORM logger backed by zap. A zero SlowThreshold
// disables slow query warnings.
func NewGormLogger(zapLogger *zap.Logger, cfg GormConfig) *GormLogger {
	return &GormLogger{
		logger: zapLogger.Named("gorm"),
		cfg:    cfg,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.cfg.Level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.forContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.forContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.forContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement: failures at error, slow queries at warn
// and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	if err != nil && !l.cfg.LogNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold

	var level gormlogger.LogLevel
	switch {
	case err != nil:
		level = gormlogger.Error
	case slow:
		level = gormlogger.Warn
	default:
		level = gormlogger.Info
	}
	if l.cfg.Level < level {
		return
	}

	sql, rows := fc()
	log := l.forContext(ctx)
	fields := []zap.Field{
		zap.String("operation", sqlOperation(sql)),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch level {
	case gormlogger.Error:
		log.Error("SQL Error", append(fields, zap.Error(err))...)
	case gormlogger.Warn:
		log.Warn("Slow SQL", append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))...)
	default:
		log.Debug("SQL Query", fields...)
	}
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	log := l.logger
	if requestID := GetRequestID(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	return WithTraceContext(ctx, log)
}

// sqlOperation returns the statement's leading keyword in lower case
func sqlOperation(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \n\t("); i > 0 {
		sql = sql[:i]
	}
	return strings.ToLower(sql)
}

// MapGormLogLevel maps an application log level to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
