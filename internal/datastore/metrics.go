// Package datastore provides type aliases and integration with the observability metrics package
package datastore

import (
	"time"

	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// Metrics is a type alias for the metrics.DatastoreMetrics
// This allows us to use the metrics throughout the datastore package
type Metrics = metrics.DatastoreMetrics

// SetMetrics attaches datastore metrics after construction. A nil value disables recording.
func (ds *DataStore) SetMetrics(m *Metrics) {
	ds.metrics = m
}

// recordOperation records outcome and duration of a single repository call.
func (ds *DataStore) recordOperation(operation string, start time.Time, err error) {
	if ds.metrics == nil {
		return
	}

	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case isNotFound(err):
		status = metrics.StatusNotFound
	default:
		status = metrics.StatusError
		ds.metrics.RecordDbOperationError(operation, categorizeError(err))
	}

	ds.metrics.RecordDbOperation(operation, status)
	ds.metrics.RecordDbOperationDuration(operation, time.Since(start).Seconds())
}

// recordSession records how a session ended and refreshes the pool gauges.
func (ds *DataStore) recordSession(status string, start time.Time) {
	if ds.metrics == nil {
		return
	}
	ds.metrics.RecordTransaction(status, time.Since(start).Seconds())

	if ds.DB == nil {
		return
	}
	if sqlDB, err := ds.DB.DB(); err == nil {
		stats := sqlDB.Stats()
		ds.metrics.UpdateConnectionMetrics(stats.OpenConnections, stats.InUse, stats.Idle, stats.MaxOpenConnections)
	}
}
