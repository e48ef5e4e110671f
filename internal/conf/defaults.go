// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/notes-go/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("main.name", "notes-go")

	viper.SetDefault("database.url", "")
	viper.SetDefault("database.type", DatabaseSQLite)
	viper.SetDefault("database.slowquerythreshold", 200*time.Millisecond)
	viper.SetDefault("database.sqlite.path", "notes.db")
	viper.SetDefault("database.sqlite.maxopenconns", 1)
	viper.SetDefault("database.sqlite.busytimeout", 5*time.Second)
	viper.SetDefault("database.mysql.username", "notes")
	viper.SetDefault("database.mysql.password", "")
	viper.SetDefault("database.mysql.database", "notes")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")
	viper.SetDefault("database.mysql.maxopenconns", 10)

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.bodylimit", "1M")
	viper.SetDefault("webserver.ratelimit", 0.0)
	viper.SetDefault("webserver.rateburst", 20)
	viper.SetDefault("webserver.readtimeout", 15*time.Second)
	viper.SetDefault("webserver.writetimeout", 15*time.Second)
	viper.SetDefault("webserver.shutdowntimeout", 10*time.Second)
	viper.SetDefault("webserver.corsorigins", []string{"*"})

	viper.SetDefault("notes.maxtitlelength", 255)
	viper.SetDefault("notes.maxcontentlength", 65535)

	viper.SetDefault("logging.default_level", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	viper.SetDefault("logging.console.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	viper.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	viper.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", "production")
	viper.SetDefault("sentry.samplerate", 1.0)
	viper.SetDefault("sentry.debug", false)
}
