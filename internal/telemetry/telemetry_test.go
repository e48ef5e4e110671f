package telemetry

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
)

// initForTesting initializes telemetry with a mock transport so tests never send real data.
func initForTesting(t *testing.T) *MockTransport {
	t.Helper()

	settings := &conf.Settings{}
	settings.Sentry.Enabled = true
	settings.Sentry.Environment = "test"
	settings.Sentry.SampleRate = 1.0
	settings.Database.Type = conf.DatabaseSQLite

	transport := NewMockTransport()
	require.NoError(t, initSentry(settings, "test-version", logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil), transport))

	t.Cleanup(func() {
		Flush(time.Second)
		errors.SetTelemetryReporter(nil)
		sentryInitialized.Store(false)
	})
	return transport
}

func TestInitSentry_DisabledClearsReporter(t *testing.T) {
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	settings := &conf.Settings{}
	require.NoError(t, InitSentry(settings, "v1", logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)))
	assert.Nil(t, errors.GetTelemetryReporter())
}

func TestDatabaseErrorsAreReported(t *testing.T) {
	transport := initForTesting(t)

	_ = errors.New(fmt.Errorf("connect to mysql://notes:hunter2@db:3306/notes failed")).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", "db_insert").
		Build()

	require.True(t, transport.WaitForEventCount(1, 2*time.Second))
	event := transport.GetEvents()[0]
	assert.Equal(t, "datastore", event.Tags["component"])
	assert.Equal(t, "database", event.Tags["category"])
	assert.NotContains(t, event.Message, "hunter2")
	assert.Empty(t, event.ServerName)
	assert.Equal(t, "notes-go@test-version", event.Release)
}

func TestExpectedConditionsAreNotReported(t *testing.T) {
	transport := initForTesting(t)

	_ = errors.New(errors.NewStd("Note not found")).
		Component("notes").
		Category(errors.CategoryNotFound).
		Build()
	_ = errors.New(errors.NewStd("title: field required")).
		Component("api").
		Category(errors.CategoryValidation).
		Build()

	assert.False(t, transport.WaitForEventCount(1, 200*time.Millisecond))
}

func TestCapturePanic(t *testing.T) {
	transport := initForTesting(t)

	err := CapturePanic("boom", "api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
	assert.True(t, errors.IsCategory(err, errors.CategorySystem))

	require.True(t, transport.WaitForEventCount(1, 2*time.Second))
	assert.Equal(t, sentry.LevelError, transport.GetEvents()[0].Level)
}

func TestApplyPrivacyFilters(t *testing.T) {
	t.Parallel()

	event := sentry.NewEvent()
	event.User = sentry.User{ID: "42", IPAddress: "10.0.0.1"}
	event.ServerName = "notes-host"
	event.Contexts = map[string]sentry.Context{"os": {}, "device": {}, "application": {}}
	event.Tags = map[string]string{"hostname": "notes-host", "component": "api"}

	filtered := applyPrivacyFilters(event)
	assert.True(t, filtered.User.IsEmpty())
	assert.Empty(t, filtered.ServerName)
	assert.NotContains(t, filtered.Contexts, "os")
	assert.Contains(t, filtered.Contexts, "application")
	assert.NotContains(t, filtered.Tags, "hostname")
	assert.Equal(t, "api", filtered.Tags["component"])
}
