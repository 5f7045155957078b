package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/preop-assessment-server/internal/api"
	"github.com/preop-assessment-server/internal/config"
	"github.com/preop-assessment-server/internal/database"
	"github.com/preop-assessment-server/internal/domain"
	"github.com/preop-assessment-server/internal/notify"
	"github.com/preop-assessment-server/internal/repository"
	"github.com/preop-assessment-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host":   cfg.Server.Host,
		"port":   cfg.Server.Port,
		"driver": cfg.Archive.Driver,
	}).Info("Starting pre-anesthesia assessment server")

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the report archive
	store, archiveDB, err := openArchive(ctx, cfg.Archive, logger)
	if err != nil {
		logger.Fatalf("Failed to open report archive: %v", err)
	}
	defer store.Close()
	if archiveDB != nil {
		defer archiveDB.Close()
	}

	// Optional advisory notifications
	var notifier service.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewDispatcher(cfg.Notify, logger)
	}

	var archiveHealth api.HealthChecker
	if archiveDB != nil {
		archiveHealth = archiveDB
	}

	assessor := service.NewAssessor(store, notifier, logger)
	server := api.NewServer(*cfg, assessor, archiveHealth, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}

// openArchive builds the configured report store, wrapped with the LRU
// cache. Postgres archives get their schema migrated first and keep a pgx
// pool open for health probes.
func openArchive(ctx context.Context, cfg domain.ArchiveConfig, logger *logrus.Logger) (repository.Store, *database.DB, error) {
	var (
		inner repository.Store
		db    *database.DB
	)

	switch cfg.Driver {
	case "postgres":
		if err := migrateArchive(cfg, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewConnection(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewPostgresStoreFromURL(database.URL(cfg))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		inner, db = store, pool
	default:
		store, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		inner = store
	}

	cached, err := repository.NewCachedStore(inner, cfg.CacheSize, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		inner.Close()
		return nil, nil, err
	}
	return cached, db, nil
}

func migrateArchive(cfg domain.ArchiveConfig, logger *logrus.Logger) error {
	migrator, err := database.NewArchiveMigrator(database.URL(cfg), cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

// newLogger builds the process logger from configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
