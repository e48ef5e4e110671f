// Package observability wires the Prometheus registry for the notes service.
// Sentry error telemetry lives in the telemetry package.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry  *prometheus.Registry
	Datastore *metrics.DatastoreMetrics
	Notes     *metrics.NotesMetrics
	HTTP      *metrics.HTTPMetrics
}

// NewMetrics creates a private registry with runtime collectors and the
// datastore, notes and HTTP metric sets registered on it.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	datastoreMetrics, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore metrics: %w", err)
	}

	notesMetrics, err := metrics.NewNotesMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Notes metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry:  registry,
		Datastore: datastoreMetrics,
		Notes:     notesMetrics,
		HTTP:      httpMetrics,
	}, nil
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for the /metrics endpoint.
func (m *Metrics) Handler(log logger.Logger) http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promErrorLogger{log: log},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// promErrorLogger adapts Logger to promhttp's Println-style logger.
type promErrorLogger struct {
	log logger.Logger
}

func (p promErrorLogger) Println(v ...any) {
	if p.log == nil {
		slog.Warn(fmt.Sprint(v...))
		return
	}
	p.log.Warn("metrics handler error", logger.String("detail", fmt.Sprint(v...)))
}
