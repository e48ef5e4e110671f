// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/gommon/bytes"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct and reports every problem at once.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		validateDatabaseSettings,
		validateWebServerSettings,
		validateNotesSettings,
		validateLoggingSettings,
		validateMetricsSettings,
		validateSentrySettings,
	}
	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDatabaseSettings(s *Settings) error {
	if _, err := s.Database.Target(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if s.Database.SQLite.MaxOpenConns < 0 || s.Database.MySQL.MaxOpenConns < 0 {
		return fmt.Errorf("database: max open connections must not be negative")
	}
	if s.Database.SlowQueryThreshold < 0 {
		return fmt.Errorf("database: slow query threshold must not be negative")
	}
	return nil
}

func validateWebServerSettings(s *Settings) error {
	ws := &s.WebServer

	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("webserver: invalid port %q", ws.Port)
	}

	if _, err := bytes.Parse(ws.BodyLimit); err != nil {
		return fmt.Errorf("webserver: invalid body limit %q: %w", ws.BodyLimit, err)
	}

	if ws.RateLimit < 0 {
		return fmt.Errorf("webserver: rate limit must not be negative")
	}
	if ws.RateLimit > 0 && ws.RateBurst < 1 {
		return fmt.Errorf("webserver: rate burst must be at least 1 when rate limiting is enabled")
	}

	if ws.ReadTimeout < 0 || ws.WriteTimeout < 0 || ws.ShutdownTimeout < 0 {
		return fmt.Errorf("webserver: timeouts must not be negative")
	}

	return nil
}

func validateNotesSettings(s *Settings) error {
	if s.Notes.MaxTitleLength < 1 {
		return fmt.Errorf("notes: max title length must be positive, got %d", s.Notes.MaxTitleLength)
	}
	if s.Notes.MaxContentLength < 1 {
		return fmt.Errorf("notes: max content length must be positive, got %d", s.Notes.MaxContentLength)
	}
	return nil
}

func validateLoggingSettings(s *Settings) error {
	var invalid []string

	check := func(name, level string) {
		if level != "" && !isValidLogLevel(level) {
			invalid = append(invalid, fmt.Sprintf("%s=%q", name, level))
		}
	}

	check("default_level", s.Logging.DefaultLevel)
	if s.Logging.Console != nil {
		check("console.level", s.Logging.Console.Level)
	}
	if s.Logging.FileOutput != nil {
		check("file_output.level", s.Logging.FileOutput.Level)
	}
	for module, level := range s.Logging.ModuleLevels {
		check("module_levels."+module, level)
	}
	for module, out := range s.Logging.ModuleOutputs {
		check("modules."+module+".level", out.Level)
	}

	if len(invalid) > 0 {
		return fmt.Errorf("logging: invalid levels %s", strings.Join(invalid, ", "))
	}
	return nil
}

func validateMetricsSettings(s *Settings) error {
	if s.Metrics.Enabled && !strings.HasPrefix(s.Metrics.Path, "/") {
		return fmt.Errorf("metrics: path must start with '/', got %q", s.Metrics.Path)
	}
	return nil
}

func validateSentrySettings(s *Settings) error {
	if !s.Sentry.Enabled {
		return nil
	}
	if s.Sentry.DSN == "" {
		return fmt.Errorf("sentry: dsn is required when sentry is enabled")
	}
	if s.Sentry.SampleRate < 0 || s.Sentry.SampleRate > 1 {
		return fmt.Errorf("sentry: sample rate must be between 0 and 1, got %g", s.Sentry.SampleRate)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
