// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings lists the variables that are validated as they are bound.
// Every other key is still reachable through NOTES_<KEY> via AutomaticEnv.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "NOTES_DEBUG", validateEnvBool},
		{"database.url", "NOTES_DATABASE_URL", validateEnvDatabaseURL},
		{"database.type", "NOTES_DATABASE_TYPE", validateEnvDatabaseType},
		{"database.sqlite.path", "NOTES_DATABASE_SQLITE_PATH", nil},
		{"database.mysql.password", "NOTES_DATABASE_MYSQL_PASSWORD", nil},
		{"webserver.host", "NOTES_WEBSERVER_HOST", nil},
		{"webserver.port", "NOTES_WEBSERVER_PORT", validateEnvPort},
		{"webserver.ratelimit", "NOTES_WEBSERVER_RATELIMIT", validateEnvNonNegativeFloat},
		{"metrics.enabled", "NOTES_METRICS_ENABLED", validateEnvBool},
		{"sentry.enabled", "NOTES_SENTRY_ENABLED", validateEnvBool},
		{"sentry.dsn", "NOTES_SENTRY_DSN", nil},
		{"logging.default_level", "NOTES_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvDatabaseURL(value string) error {
	_, err := ParseDatabaseURL(value)
	return err
}

func validateEnvDatabaseType(value string) error {
	switch strings.ToLower(value) {
	case DatabaseSQLite, DatabaseMySQL:
		return nil
	default:
		return fmt.Errorf("database type must be %q or %q, got %q", DatabaseSQLite, DatabaseMySQL, value)
	}
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("port must be a number, got %q", value)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvNonNegativeFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}
	if f < 0 {
		return fmt.Errorf("must not be negative, got %g", f)
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	if !isValidLogLevel(value) {
		return fmt.Errorf("log level must be one of trace, debug, info, warn, error; got %q", value)
	}
	return nil
}
