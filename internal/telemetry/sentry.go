// Package telemetry provides privacy-compliant error tracking through Sentry
package telemetry

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
)

// sentryInitialized tracks whether Sentry has been initialized
var sentryInitialized atomic.Bool

// PlatformInfo holds privacy-safe platform information for telemetry
type PlatformInfo struct {
	OS           string `json:"os"`
	Architecture string `json:"arch"`
	NumCPU       int    `json:"num_cpu"`
	GoVersion    string `json:"go_version"`
}

func collectPlatformInfo() PlatformInfo {
	return PlatformInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		NumCPU:       runtime.NumCPU(),
		GoVersion:    runtime.Version(),
	}
}

// InitSentry initializes the Sentry SDK when telemetry is enabled and hooks
// it into the errors package so that built errors are reported.
// Telemetry is opt-in; with Sentry disabled this only clears the reporter.
func InitSentry(settings *conf.Settings, version string, log logger.Logger) error {
	return initSentry(settings, version, log, nil)
}

// initSentry allows tests to supply a transport.
func initSentry(settings *conf.Settings, version string, log logger.Logger, transport sentry.Transport) error {
	if log == nil {
		log = logger.Global().Module("telemetry")
	}

	if !settings.Sentry.Enabled {
		errors.SetTelemetryReporter(nil)
		log.Info("Sentry telemetry is disabled (opt-in required)")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:        settings.Sentry.DSN,
		SampleRate: settings.Sentry.SampleRate,
		Debug:      settings.Sentry.Debug,
		Transport:  transport,

		// Privacy-compliant settings
		AttachStacktrace: false,
		Environment:      settings.Sentry.Environment,
		ServerName:       "",
		Release:          fmt.Sprintf("notes-go@%s", version),

		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return errors.New(fmt.Errorf("sentry initialization failed: %w", err)).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	configureSentryScope(settings, version)
	sentryInitialized.Store(true)
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	log.Info("Sentry telemetry initialized",
		logger.String("environment", settings.Sentry.Environment),
		logger.Float64("sample_rate", settings.Sentry.SampleRate),
		logger.String("release", version))
	return nil
}

// applyPrivacyFilters strips host and user identifying data from an event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	return event
}

func configureSentryScope(settings *conf.Settings, version string) {
	platformInfo := collectPlatformInfo()

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", platformInfo.OS)
		scope.SetTag("arch", platformInfo.Architecture)
		scope.SetTag("db_type", settings.Database.Type)

		scope.SetContext("application", map[string]any{
			"name":    "notes-go",
			"version": version,
		})
		scope.SetContext("platform", map[string]any{
			"os":           platformInfo.OS,
			"architecture": platformInfo.Architecture,
			"num_cpu":      platformInfo.NumCPU,
			"go_version":   platformInfo.GoVersion,
		})
	})
}

// CapturePanic reports a recovered panic as a critical error. It returns the
// error so callers can log or respond with it.
func CapturePanic(recovered any, component string) error {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	return errors.New(err).
		Component(component).
		Category(errors.CategorySystem).
		Priority(errors.PriorityCritical).
		Context("operation", "recover").
		Build()
}

// Flush waits for buffered events to be sent. It is a no-op when Sentry was not initialized.
func Flush(timeout time.Duration) {
	if !sentryInitialized.Load() {
		return
	}
	sentry.Flush(timeout)
}
