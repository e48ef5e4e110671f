package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/logger"
)

// DiscardLogger returns a logger that drops everything below error and
// writes nothing.
func DiscardLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

// SQLiteSettings returns settings for a SQLite database in a fresh temp directory.
func SQLiteSettings(t *testing.T) *conf.Settings {
	t.Helper()

	settings := &conf.Settings{}
	settings.Database.Type = conf.DatabaseSQLite
	settings.Database.SQLite.Path = filepath.Join(t.TempDir(), "notes.db")
	settings.Database.SQLite.MaxOpenConns = 1
	settings.Database.SQLite.BusyTimeout = DefaultTestTimeout
	settings.Notes.MaxTitleLength = 255
	settings.Notes.MaxContentLength = 65535
	return settings
}

// OpenStore opens the store described by settings and closes it when the test ends.
func OpenStore(t *testing.T, settings *conf.Settings, m *datastore.Metrics) datastore.Interface {
	t.Helper()

	store, err := datastore.New(settings, DiscardLogger(), m)
	require.NoError(t, err)
	require.NoError(t, store.Open(), "failed to open datastore")
	t.Cleanup(func() {
		assert.NoError(t, store.Close(), "failed to close datastore")
	})
	return store
}

// NewSQLiteStore opens a fresh SQLite store without metrics.
func NewSQLiteStore(t *testing.T) datastore.Interface {
	t.Helper()
	return OpenStore(t, SQLiteSettings(t), nil)
}
