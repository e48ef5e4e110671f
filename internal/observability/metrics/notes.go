package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NotesMetrics tracks note service operations independent of transport.
type NotesMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	payloadRunes      *prometheus.HistogramVec
}

// NewNotesMetrics creates and registers note service metrics
func NewNotesMetrics(registry *prometheus.Registry) (*NotesMetrics, error) {
	m := &NotesMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_operations_total",
				Help: "Total number of note operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_operation_duration_seconds",
				Help:    "Time spent in note service operations",
				Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount15),
			},
			[]string{"operation"},
		),
		payloadRunes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_payload_runes",
				Help:    "Length in runes of stored titles and contents",
				Buckets: prometheus.ExponentialBuckets(BucketStart64B/4, BucketFactor4, BucketCount8),
			},
			[]string{"field"},
		),
	}

	for _, c := range []prometheus.Collector{m.operationsTotal, m.operationDuration, m.payloadRunes} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordOperation records one service operation with its outcome and duration in seconds
func (m *NotesMetrics) RecordOperation(operation, status string, duration float64) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordPayload records the rune length of a written field ("title" or "content")
func (m *NotesMetrics) RecordPayload(field string, runes int) {
	m.payloadRunes.WithLabelValues(field).Observe(float64(runes))
}
