package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	attendanceapp "github.com/fieldops/backend/internal/application/attendance"
	identityapp "github.com/fieldops/backend/internal/application/identity"
	materialapp "github.com/fieldops/backend/internal/application/material"
	routingapp "github.com/fieldops/backend/internal/application/routing"
	workforceapp "github.com/fieldops/backend/internal/application/workforce"
	workorderapp "github.com/fieldops/backend/internal/application/workorder"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/event"
	"github.com/fieldops/backend/internal/infrastructure/export"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/migration"
	"github.com/fieldops/backend/internal/infrastructure/optimoroute"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/internal/infrastructure/scheduler"
	"github.com/fieldops/backend/internal/infrastructure/storage"
	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/router"
	"github.com/fieldops/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			FieldOps API
//	@version		1.0
//	@description	Back office API for field service supervisors: work order review, technician roster, attendance, material usage and the OptimoRoute integration.

//	@contact.name	FieldOps Engineering
//	@contact.url	https://github.com/fieldops/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	bootLog, err := newLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := setupTelemetry(ctx, cfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log := bootLog
	if cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled {
		if log, err = newLogger(cfg, tel.logs.ZapCore()); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FieldOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.GormConfig{
		Level:         logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: 200 * time.Millisecond,
	})
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Repositories
	supervisorRepo := persistence.NewGormSupervisorRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	technicianRepo := persistence.NewGormTechnicianRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	imageRepo := persistence.NewGormWorkOrderImageRepository(db.DB)

	store, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() {
		_ = store.Close()
	}()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if rs, ok := store.(*cache.RedisStore); ok {
		blacklist = auth.NewRedisTokenBlacklist(rs.Client())
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	var objects workorderapp.ImageStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3
	} else {
		log.Warn("Object storage disabled, image uploads are kept in memory")
		objects = storage.NewMemoryObjectStorage()
	}

	metrics, err := telemetry.NewBusinessMetrics(tel.meter.Meter("fieldops"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	routeClient := optimoroute.NewClient(cfg.OptimoRoute,
		optimoroute.WithMetrics(metrics),
		optimoroute.WithPrometheus(tel.prom),
	)
	if cfg.OptimoRoute.APIKey == "" {
		log.Warn("OptimoRoute API key not configured, order lookups will fail")
	}

	// Application services
	authService := identityapp.NewAuthService(supervisorRepo, jwtService, blacklist, log)
	groupService := workforceapp.NewGroupService(groupRepo)
	if _, err := groupService.EnsureUnassigned(ctx); err != nil {
		log.Fatal("Failed to ensure Unassigned group", zap.Error(err))
	}
	technicianService := workforceapp.NewTechnicianService(technicianRepo, groupRepo)
	attendanceService := attendanceapp.NewAttendanceService(attendanceRepo, technicianRepo, metrics)
	materialService := materialapp.NewMaterialService(materialRepo, export.NewXLSXWriter())
	workOrderService := workorderapp.NewWorkOrderService(
		workOrderRepo,
		imageRepo,
		objects,
		storage.NewURLFetcher(cfg.OptimoRoute.Timeout),
		storage.NewZipArchiver(),
		workorderapp.ServiceConfig{
			PresignExpiration: cfg.Storage.PresignExpiration,
			MaxArchiveImages:  cfg.Storage.MaxArchiveImages,
		},
	)
	searchService := routingapp.NewSearchService(routeClient, store, cfg.OptimoRoute.SearchCacheTTL)
	bulkService := routingapp.NewBulkFetchService(routeClient, cfg.OptimoRoute.MaxPages, metrics)
	importService := routingapp.NewImportService(bulkService, workOrderRepo, imageRepo, metrics)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(workorderapp.NewStatusChangeHandler(metrics))
	eventBus.Subscribe(event.NewAuditLogHandler())
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	workOrderService.SetEventPublisher(eventBus)
	importService.SetEventPublisher(eventBus)

	var importTrigger *scheduler.ImportTrigger
	if cfg.Scheduler.Enabled {
		importTrigger, err = scheduler.NewImportTrigger(cfg.Scheduler, importService, store, log)
		if err != nil {
			log.Fatal("Failed to create import scheduler", zap.Error(err))
		}
		if err := importTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start import scheduler", zap.Error(err))
		}
		log.Info("Order import scheduled", zap.String("cron", cfg.Scheduler.ImportCron))
	}

	handlers := router.Handlers{
		System:      handler.NewSystemHandler(version, db.Ping),
		Auth:        handler.NewAuthHandler(authService),
		WorkOrder:   handler.NewWorkOrderHandler(workOrderService),
		Technician:  handler.NewTechnicianHandler(technicianService),
		Group:       handler.NewGroupHandler(groupService),
		Attendance:  handler.NewAttendanceHandler(attendanceService),
		Material:    handler.NewMaterialHandler(materialService),
		OptimoRoute: handler.NewOptimoRouteHandler(searchService, bulkService, importService),
	}
	engine := newEngine(cfg, log, jwtService, blacklist, tel, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        gziphandler.GzipHandler(engine),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if importTrigger != nil {
		if err := importTrigger.Stop(shutdownCtx); err != nil {
			log.Warn("Import scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	tel.shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config, tee ...zapcore.Core) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Tee:        tee,
	})
}

// runMigrations applies the embedded schema on a dedicated connection,
// since closing the migrator closes its database handle.
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, ".", log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}
