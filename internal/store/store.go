package store

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/database"
	"github.com/nerrad567/studyaid-core/migrations"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config locates the database file and the export file.
type Config struct {
	Database   database.Config
	ExportPath string
}

// openFunc opens the database handle. Swapped in tests.
type openFunc func(ctx context.Context, cfg database.Config) (*database.DB, error)

// Store is the persistence layer. Construct one per process with New and
// share the pointer; the zero value is not usable.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - The handle is published once and never replaced.
type Store struct {
	cfg    Config
	schema fs.FS
	open   openFunc
	now    func() time.Time
	logger Logger

	initMu sync.Mutex
	db     atomic.Pointer[database.DB]
}

// New creates an uninitialised Store. No I/O happens until Initialize.
func New(cfg Config) *Store {
	return &Store{
		cfg:    cfg,
		schema: migrations.FS,
		open:   database.Open,
		now:    time.Now,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Initialize opens the database and applies the schema. It returns
// immediately once the store is ready.
//
// Concurrent callers are serialised: exactly one of them opens the handle
// and the others observe the result. On failure the handle is closed, the
// store stays uninitialised and the error wraps ErrInitFailed.
func (s *Store) Initialize(ctx context.Context) error {
	if s.db.Load() != nil {
		return nil
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.db.Load() != nil {
		return nil
	}

	db, err := s.open(ctx, s.cfg.Database)
	if err != nil {
		s.logger.Error("opening database failed", "path", s.cfg.Database.Path, "error", err)
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	if err := db.Migrate(ctx, s.schema); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		s.logger.Error("applying schema failed", "path", s.cfg.Database.Path, "error", err)
		return fmt.Errorf("%w: applying schema: %w", ErrInitFailed, err)
	}

	s.db.Store(db)
	s.logger.Info("store initialized", "path", db.Path())
	return nil
}

// Ready reports whether Initialize has succeeded.
func (s *Store) Ready() bool {
	return s.db.Load() != nil
}

// HealthCheck verifies the shared handle still answers queries.
func (s *Store) HealthCheck(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// SchemaStatus summarises the applied and pending schema migrations.
type SchemaStatus struct {
	Version string `json:"version"`
	Applied int    `json:"applied"`
	Pending int    `json:"pending"`
}

// SchemaStatus reports the latest applied migration and how many of the
// embedded migrations have not been applied.
func (s *Store) SchemaStatus(ctx context.Context) (SchemaStatus, error) {
	db, err := s.handle()
	if err != nil {
		return SchemaStatus{}, err
	}
	applied, pending, err := db.GetMigrationStatus(ctx, s.schema)
	if err != nil {
		return SchemaStatus{}, fmt.Errorf("%w: reading schema status: %w", ErrStorage, err)
	}

	status := SchemaStatus{Applied: len(applied), Pending: len(pending)}
	for _, m := range applied {
		if m.Version > status.Version {
			status.Version = m.Version
		}
	}
	return status, nil
}

// Close releases the database handle at process shutdown. The store does
// not return to the uninitialised state: later operations fail with a
// storage error rather than ErrNotInitialized.
func (s *Store) Close() error {
	db := s.db.Load()
	if db == nil {
		return nil
	}
	return db.Close()
}

// handle returns the shared database handle or ErrNotInitialized.
func (s *Store) handle() (*database.DB, error) {
	db := s.db.Load()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// timestamp returns the current time in the store's text layout.
func (s *Store) timestamp() string {
	return FormatTimestamp(s.now())
}
