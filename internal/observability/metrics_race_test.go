package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// TestNewMetricsConcurrency verifies that independent registries can be built concurrently
func TestNewMetricsConcurrency(t *testing.T) {
	const numGoroutines = 20

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.NotNil(t, m.Registry())
			assert.NotNil(t, m.Datastore)
			assert.NotNil(t, m.Notes)
			assert.NotNil(t, m.HTTP)
		})
	}
	wg.Wait()
}

func TestMetricsRecording(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.Notes.RecordOperation(metrics.OpNoteCreate, metrics.StatusSuccess, 0.002)
	m.Notes.RecordOperation(metrics.OpNoteGet, metrics.StatusNotFound, 0.001)
	m.Datastore.RecordDbOperation(metrics.OpDbInsert, metrics.StatusSuccess)
	m.Datastore.RecordTransaction(metrics.TxCommitted, 0.003)
	m.HTTP.RecordHTTPRequest(http.MethodPost, "/api/v1/notes", "201", 0.004, 64)
	m.HTTP.RequestStarted()

	ops, err := testutil.GatherAndCount(m.Registry(), "notes_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, ops)
	assert.InDelta(t, 1, m.HTTP.InFlight(), 0)
	m.HTTP.RequestFinished()
	assert.InDelta(t, 0, m.HTTP.InFlight(), 0)

	count, err := testutil.GatherAndCount(m.Registry(), "notes_datastore_transactions_total", "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricsHandlerServesExposition(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	m.Notes.RecordOperation(metrics.OpNoteList, metrics.StatusSuccess, time.Millisecond.Seconds())

	rec := httptest.NewRecorder()
	m.Handler(logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `notes_operations_total{operation="note_list",status="success"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
