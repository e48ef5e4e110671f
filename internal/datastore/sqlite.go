package datastore

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
)

const memoryPath = ":memory:"

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Path string // database file, or ":memory:"
}

func (store *SQLiteStore) validateSQLiteConfig() error {
	if store.Path == "" {
		return errors.Newf("sqlite database path is empty").
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("field", "database.sqlite.path").
			Build()
	}
	return nil
}

// dsn builds the go-sqlite3 connection string with WAL journaling and a busy timeout.
func (store *SQLiteStore) dsn() string {
	params := url.Values{}
	busy := store.Settings.Database.SQLite.BusyTimeout
	if busy > 0 {
		params.Set("_busy_timeout", strconv.FormatInt(busy.Milliseconds(), 10))
	}
	if store.Path == memoryPath {
		params.Set("cache", "shared")
		return "file::memory:?" + params.Encode()
	}
	params.Set("_journal_mode", "WAL")
	params.Set("_foreign_keys", "on")
	return "file:" + store.Path + "?" + params.Encode()
}

// Open sets up the SQLite database connection and creates the schema.
func (store *SQLiteStore) Open() error {
	if err := store.validateSQLiteConfig(); err != nil {
		return err
	}

	if store.Path != memoryPath {
		if dir := filepath.Dir(store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New(fmt.Errorf("failed to create database directory: %w", err)).
					Component("datastore").
					Category(errors.CategoryFileIO).
					Context("path", dir).
					Build()
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(store.dsn()), store.gormConfig())
	if err != nil {
		store.logger.Error("failed to open SQLite database",
			logger.String("path", store.Path),
			logger.Error(err))
		return dbError(err, "open", errors.PriorityCritical, "db_type", "sqlite", "path", store.Path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return dbError(err, "open", errors.PriorityCritical, "db_type", "sqlite")
	}
	if maxOpen := store.Settings.Database.SQLite.MaxOpenConns; maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	store.DB = db
	if err := store.performAutoMigration("SQLite"); err != nil {
		_ = store.closeDB()
		return err
	}

	store.logger.Info("SQLite database opened",
		logger.String("path", store.Path),
		logger.Int("max_open_conns", store.Settings.Database.SQLite.MaxOpenConns))
	return nil
}

// Close closes the SQLite database connection
func (store *SQLiteStore) Close() error {
	if err := store.closeDB(); err != nil {
		return err
	}
	store.logger.Debug("SQLite database closed", logger.String("path", store.Path))
	return nil
}

// Driver returns the backend name.
func (store *SQLiteStore) Driver() string {
	return "sqlite"
}
