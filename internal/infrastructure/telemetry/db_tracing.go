package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled    bool
	DBName     string
	LogFullSQL bool // include query variables in spans (development only)
}

// RegisterDBTracing installs the otelgorm plugin and an after-callback that
// annotates spans with affected rows and marks failed statements.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := db.Callback().Create().After("gorm:create").Register("fieldops:span_create", annotateSpan); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("fieldops:span_query", annotateSpan); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("fieldops:span_update", annotateSpan); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("fieldops:span_delete", annotateSpan); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.String("db_name", cfg.DBName), zap.Bool("log_full_sql", cfg.LogFullSQL))
	return nil
}

func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
