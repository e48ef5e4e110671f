package datastore

import (
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	DSN string // go-sql-driver/mysql DSN
}

// validateMySQLConfig parses the DSN and returns its config for logging.
func (store *MySQLStore) validateMySQLConfig() (*gomysql.Config, error) {
	cfg, err := gomysql.ParseDSN(store.DSN)
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("field", "database.url").
			Build()
	}
	if cfg.DBName == "" {
		return nil, errors.Newf("mysql database name is empty").
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("field", "database.mysql.database").
			Build()
	}
	return cfg, nil
}

// Open sets up the MySQL database connection and creates the schema.
func (store *MySQLStore) Open() error {
	cfg, err := store.validateMySQLConfig()
	if err != nil {
		return err
	}

	db, err := gorm.Open(mysql.Open(store.DSN), store.gormConfig())
	if err != nil {
		store.logger.Error("failed to open MySQL database",
			logger.String("address", cfg.Addr),
			logger.String("database", cfg.DBName),
			logger.Error(err))
		return dbError(err, "open", errors.PriorityCritical,
			"db_type", "mysql", "address", cfg.Addr, "database", cfg.DBName)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return dbError(err, "open", errors.PriorityCritical, "db_type", "mysql")
	}
	if maxOpen := store.Settings.Database.MySQL.MaxOpenConns; maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	store.DB = db
	if err := store.performAutoMigration("MySQL"); err != nil {
		_ = store.closeDB()
		return err
	}

	store.logger.Info("MySQL database opened",
		logger.String("address", cfg.Addr),
		logger.String("database", cfg.DBName),
		logger.String("user", cfg.User))
	return nil
}

// Close MySQL database connections
func (store *MySQLStore) Close() error {
	return store.closeDB()
}

// Driver returns the backend name.
func (store *MySQLStore) Driver() string {
	return "mysql"
}
