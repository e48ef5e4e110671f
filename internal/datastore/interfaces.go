// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// Interface abstracts the underlying database implementation. A store is
// opened once at process start and closed once at process stop; all note
// access goes through sessions obtained from WithSession.
type Interface interface {
	Open() error
	Close() error
	Ping(ctx context.Context) error
	WithSession(ctx context.Context, fn func(Session) error) error
	Driver() string
}

// Session is a single unit of work bound to one database transaction.
// It must not be used after the WithSession callback returns.
type Session interface {
	InsertNote(title, content string) (Note, error)
	ListNotes() ([]Note, error)
	GetNote(id uint) (Note, error)
	UpdateNote(id uint, title, content string) (Note, error)
	DeleteNote(id uint) error
}

// DataStore implements the driver independent part of Interface using a GORM database.
type DataStore struct {
	DB       *gorm.DB // GORM database instance
	Settings *conf.Settings

	logger  logger.Logger
	metrics *Metrics
}

// New creates a store for the database selected by settings. The store is not
// opened; call Open before use.
func New(settings *conf.Settings, log logger.Logger, m *Metrics) (Interface, error) {
	target, err := settings.Database.Target()
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("operation", "select_database").
			Build()
	}

	if log == nil {
		log = logger.Global().Module("datastore")
	}

	base := DataStore{
		Settings: settings,
		logger:   log,
		metrics:  m,
	}

	switch target.Driver {
	case conf.DatabaseSQLite:
		return &SQLiteStore{DataStore: base, Path: target.DSN}, nil
	case conf.DatabaseMySQL:
		return &MySQLStore{DataStore: base, DSN: target.DSN}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", target.Driver)
	}
}

// gormConfig returns the GORM configuration shared by all drivers.
func (ds *DataStore) gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:  logger.NewGormLoggerAdapter(ds.logger, ds.Settings.Database.SlowQueryThreshold),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// every write runs inside the request session already
		SkipDefaultTransaction: true,
	}
}

// performAutoMigration creates the notes table if it does not exist.
func (ds *DataStore) performAutoMigration(dbType string) error {
	start := time.Now()
	if err := ds.DB.AutoMigrate(&Note{}); err != nil {
		return dbError(err, "auto_migrate", errors.PriorityCritical, "db_type", dbType)
	}
	ds.logger.Debug("schema ready",
		logger.String("db_type", dbType),
		logger.String("table", Note{}.TableName()),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// Ping verifies the database is reachable.
func (ds *DataStore) Ping(ctx context.Context) error {
	start := time.Now()
	if ds.DB == nil {
		return dbError(errNotOpen, metrics.OpDbPing, errors.PriorityHigh)
	}

	sqlDB, err := ds.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	ds.recordOperation(metrics.OpDbPing, start, err)
	if err != nil {
		return wrapQueryError(err, metrics.OpDbPing)
	}
	return nil
}

// WithSession runs fn inside a transaction bound to ctx. The transaction
// commits when fn returns nil and rolls back when fn returns an error,
// panics, or ctx is cancelled. A panic is re-raised after rollback.
func (ds *DataStore) WithSession(ctx context.Context, fn func(Session) error) error {
	if ds.DB == nil {
		return dbError(errNotOpen, "begin_session", errors.PriorityHigh)
	}

	start := time.Now()
	status := metrics.TxRolledBack
	completed := false
	defer func() {
		if !completed {
			status = metrics.TxPanicked
		}
		ds.recordSession(status, start)
	}()

	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&session{tx: tx, ds: ds})
	})
	completed = true

	if err == nil {
		status = metrics.TxCommitted
		return nil
	}

	// Errors raised by the callback are already classified.
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		return err
	}
	return wrapQueryError(err, "session")
}

// closeDB releases the connection pool.
func (ds *DataStore) closeDB() error {
	if ds.DB == nil {
		return dbError(errNotOpen, "close", errors.PriorityLow)
	}

	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "close", errors.PriorityMedium)
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close", errors.PriorityMedium)
	}
	ds.DB = nil
	return nil
}
