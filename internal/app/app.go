package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sawiku/internal/analyzer"
	"sawiku/internal/blobstore"
	"sawiku/internal/config"
	"sawiku/internal/database"
	"sawiku/internal/database/migrations"
	"sawiku/internal/encryption"
	"sawiku/internal/sawi"
)

// App is the application layer between the CLI and sawi.Service.
// It constructs all dependencies from config and manages the DB lifecycle
// on Close.
type App struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	blobs     sawi.BlobStore
	encryptor sawi.Encryptor
	service   *sawi.Service
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "serve", "backup-create").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	blobs, err := blobstore.NewBlobStoreFromConfig(ctx, cfg.BlobStore)
	if err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}
	if err := blobs.ValidateSetup(ctx); err != nil {
		return nil, fmt.Errorf("validating blob store: %w", err)
	}

	an, err := analyzer.NewAnalyzerFromConfig(ctx, cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	op := NewOperation(operation, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.Label(), level)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := sawi.NewService(db, blobs, an, &slogAdapter{l: logger}, sawi.RealClock{}, sawi.UUIDGenerator{}, loc)
	logger.Debug("operation started", "database", db.Path(), "blobstore", cfg.BlobStore.Type, "analyzer", cfg.Analyzer.Type, "timezone", loc.String())

	return &App{
		cfg:       cfg,
		db:        db,
		blobs:     blobs,
		encryptor: enc,
		service:   svc,
		logger:    logger,
		op:        op,
		logFile:   logFile,
	}, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Service returns the service layer.
func (a *App) Service() *sawi.Service { return a.service }

// Blobs returns the photo and backup store.
func (a *App) Blobs() sawi.BlobStore { return a.blobs }

// Logger returns the operation's structured logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Fail marks the running operation as failed. Close logs the outcome.
func (a *App) Fail() { a.op.Fail() }

// Close logs the outcome of the operation and closes all resources.
func (a *App) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	a.logger.Debug("operation finished", "status", a.op.Status, "duration", time.Since(a.op.StartedAt).Truncate(time.Millisecond))
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// MigrateDatabase applies pending schema migrations to the configured
// database and returns the resulting status.
func MigrateDatabase(cfg *config.Config) (migrations.Status, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return migrations.Status{}, fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return migrations.Status{}, err
	}
	return db.MigrationStatus()
}

// DatabaseStatus reports the schema version of the configured database
// without changing it.
func DatabaseStatus(cfg *config.Config) (migrations.Status, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return migrations.Status{}, fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()
	return db.MigrationStatus()
}

// DatabaseSchema returns the CREATE statements of the configured database.
func DatabaseSchema(cfg *config.Config) (string, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return "", fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()
	return db.Schema()
}
