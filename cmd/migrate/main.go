package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/migration"
	"github.com/fieldops/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory on disk (default: migrations embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate -path migrations create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		var names []string
		if migrationsPath == "" {
			names, err = migration.ListMigrations(migrations.FS)
		} else {
			names, err = migration.ListMigrations(os.DirFS(migrationsPath))
		}
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath == "" {
		m, err = migration.NewFromFS(db, migrations.FS, ".", log)
	} else {
		m, err = migration.New(db, migrationsPath, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		err = m.Steps(n)
	case "version":
		var st migration.Status
		st, err = m.Status()
		if err == nil {
			if !st.Applied {
				log.Info("No migrations applied")
			} else {
				log.Info("Current migration version", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
			}
		}
	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		err = m.Force(version)
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`Field Ops Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Mark a version as applied (recovers a dirty database)
  create <name> [desc]  Create the next numbered migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory on disk (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  FIELDOPS_DATABASE_HOST, FIELDOPS_DATABASE_PORT, FIELDOPS_DATABASE_USER,
  FIELDOPS_DATABASE_PASSWORD, FIELDOPS_DATABASE_DBNAME, FIELDOPS_DATABASE_SSLMODE`)
}
