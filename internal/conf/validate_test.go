package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/notes-go/internal/logger"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Database.Type = DatabaseSQLite
	s.Database.SQLite.Path = "notes.db"
	s.Database.SQLite.MaxOpenConns = 1
	s.WebServer.Port = "8080"
	s.WebServer.BodyLimit = "1M"
	s.Notes.MaxTitleLength = 255
	s.Notes.MaxContentLength = 65535
	s.Logging = logger.LoggingConfig{DefaultLevel: "info"}
	s.Metrics.Enabled = true
	s.Metrics.Path = "/metrics"
	return s
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad port", func(s *Settings) { s.WebServer.Port = "http" }, "invalid port"},
		{"port out of range", func(s *Settings) { s.WebServer.Port = "70000" }, "invalid port"},
		{"bad body limit", func(s *Settings) { s.WebServer.BodyLimit = "huge" }, "body limit"},
		{"negative rate", func(s *Settings) { s.WebServer.RateLimit = -1 }, "rate limit"},
		{"rate without burst", func(s *Settings) { s.WebServer.RateLimit = 10 }, "rate burst"},
		{"bad database url", func(s *Settings) { s.Database.URL = "oracle://x/y" }, "database"},
		{"zero title length", func(s *Settings) { s.Notes.MaxTitleLength = 0 }, "max title length"},
		{"zero content length", func(s *Settings) { s.Notes.MaxContentLength = 0 }, "max content length"},
		{"bad log level", func(s *Settings) { s.Logging.ModuleLevels = map[string]string{"api": "loud"} }, "module_levels.api"},
		{"metrics path", func(s *Settings) { s.Metrics.Path = "metrics" }, "metrics"},
		{"sentry without dsn", func(s *Settings) { s.Sentry.Enabled = true; s.Sentry.SampleRate = 1 }, "dsn is required"},
		{"sentry sample rate", func(s *Settings) {
			s.Sentry.Enabled = true
			s.Sentry.DSN = "https://k@sentry.example.com/1"
			s.Sentry.SampleRate = 2
		}, "sample rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)

			err := ValidateSettings(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	s := validSettings()
	s.WebServer.Port = "x"
	s.Notes.MaxTitleLength = -1
	s.Metrics.Path = ""

	err := ValidateSettings(s)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestEnvValidators(t *testing.T) {
	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))
	assert.NoError(t, validateEnvPort("8080"))
	assert.Error(t, validateEnvPort("0"))
	assert.NoError(t, validateEnvDatabaseType("MySQL"))
	assert.Error(t, validateEnvDatabaseType("postgres"))
	assert.NoError(t, validateEnvDatabaseURL("sqlite:///notes.db"))
	assert.Error(t, validateEnvDatabaseURL("notes.db"))
	assert.NoError(t, validateEnvNonNegativeFloat("2.5"))
	assert.Error(t, validateEnvNonNegativeFloat("-1"))
	assert.NoError(t, validateEnvLogLevel("TRACE"))
	assert.Error(t, validateEnvLogLevel("verbose"))
}
