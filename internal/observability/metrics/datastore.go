// Package metrics provides datastore metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for datastore operations
type DatastoreMetrics struct {
	dbOperationsTotal      *prometheus.CounterVec
	dbOperationDuration    *prometheus.HistogramVec
	dbOperationErrorsTotal *prometheus.CounterVec

	dbTransactionsTotal   *prometheus.CounterVec
	dbTransactionDuration prometheus.Histogram

	dbConnectionsOpenGauge  prometheus.Gauge
	dbConnectionsInUseGauge prometheus.Gauge
	dbConnectionsIdleGauge  prometheus.Gauge
	dbConnectionsMaxGauge   prometheus.Gauge

	collectors []prometheus.Collector
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DatastoreMetrics) initMetrics() {
	m.dbOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_datastore_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"}, // operation: db_insert, db_query...; status: success, not_found, error
	)

	m.dbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_datastore_operation_duration_seconds",
			Help:    "Time taken for database operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount15), // 0.1ms to ~1.6s
		},
		[]string{"operation"},
	)

	m.dbOperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_datastore_operation_errors_total",
			Help: "Total number of failed database operations by error type",
		},
		[]string{"operation", "error_type"},
	)

	m.dbTransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_datastore_transactions_total",
			Help: "Total number of request sessions by outcome",
		},
		[]string{"status"}, // committed, rolled_back, panicked
	)

	m.dbTransactionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notes_datastore_transaction_duration_seconds",
			Help:    "Lifetime of request sessions from begin to commit or rollback",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15),
		},
	)

	m.dbConnectionsOpenGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notes_datastore_connections_open",
		Help: "Number of established database connections",
	})
	m.dbConnectionsInUseGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notes_datastore_connections_in_use",
		Help: "Number of database connections currently in use",
	})
	m.dbConnectionsIdleGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notes_datastore_connections_idle",
		Help: "Number of idle database connections",
	})
	m.dbConnectionsMaxGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notes_datastore_connections_max",
		Help: "Maximum number of open database connections, 0 is unlimited",
	})

	m.collectors = []prometheus.Collector{
		m.dbOperationsTotal,
		m.dbOperationDuration,
		m.dbOperationErrorsTotal,
		m.dbTransactionsTotal,
		m.dbTransactionDuration,
		m.dbConnectionsOpenGauge,
		m.dbConnectionsInUseGauge,
		m.dbConnectionsIdleGauge,
		m.dbConnectionsMaxGauge,
	}
}

// Describe implements the Collector interface
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordDbOperation records a database operation outcome
func (m *DatastoreMetrics) RecordDbOperation(operation, status string) {
	m.dbOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDbOperationDuration records the duration of a database operation in seconds
func (m *DatastoreMetrics) RecordDbOperationDuration(operation string, duration float64) {
	m.dbOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordDbOperationError records a database operation error
func (m *DatastoreMetrics) RecordDbOperationError(operation, errorType string) {
	m.dbOperationErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordTransaction records how a session ended and how long it lived
func (m *DatastoreMetrics) RecordTransaction(status string, duration float64) {
	m.dbTransactionsTotal.WithLabelValues(status).Inc()
	m.dbTransactionDuration.Observe(duration)
}

// UpdateConnectionMetrics updates database connection pool gauges
func (m *DatastoreMetrics) UpdateConnectionMetrics(open, inUse, idle, maxOpen int) {
	m.dbConnectionsOpenGauge.Set(float64(open))
	m.dbConnectionsInUseGauge.Set(float64(inUse))
	m.dbConnectionsIdleGauge.Set(float64(idle))
	m.dbConnectionsMaxGauge.Set(float64(maxOpen))
}
