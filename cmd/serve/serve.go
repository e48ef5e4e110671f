// Package serve provides the serve command, which runs the notes HTTP API
// until interrupted.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/notes-go/internal/api"
	"github.com/tphakala/notes-go/internal/buildinfo"
	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/httpserver"
	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/notes"
	"github.com/tphakala/notes-go/internal/observability"
	"github.com/tphakala/notes-go/internal/telemetry"
)

// telemetryFlushTimeout bounds how long pending Sentry events are flushed on exit.
const telemetryFlushTimeout = 2 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notes HTTP API",
		Long:  "Open the database, create the schema if needed and serve the notes API until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings, build)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", viper.GetString("webserver.host"), "Interface the HTTP server binds to")
	cmd.Flags().BoolVar(&settings.Metrics.Enabled, "metrics", viper.GetBool("metrics.enabled"), "Expose Prometheus metrics")

	if err := viper.BindPFlag("webserver.host", cmd.Flags().Lookup("host")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("metrics.enabled", cmd.Flags().Lookup("metrics")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// Run wires logging, telemetry, metrics, the datastore and the HTTP API, and
// serves until ctx is cancelled.
func Run(ctx context.Context, settings *conf.Settings, build *buildinfo.Context) error {
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)
	defer func() {
		if err := central.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing logs: %v\n", err)
		}
	}()

	log := central.Module("main")
	log.Info("starting notes-go",
		logger.String("version", build.Version()),
		logger.String("commit", build.Commit()),
		logger.String("config", conf.ConfigFileUsed()))

	if err := telemetry.InitSentry(settings, build.Version(), central.Module("telemetry")); err != nil {
		log.Warn("error telemetry disabled", logger.Error(err))
	}
	defer telemetry.Flush(telemetryFlushTimeout)

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	store, err := datastore.New(settings, central.Module("datastore"), metrics.Datastore)
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("error closing datastore", logger.Error(err))
		}
	}()

	svc := notes.NewService(notes.LimitsFromSettings(&settings.Notes), central.Module("notes"), metrics.Notes)

	srv := httpserver.New(&settings.WebServer, central.Module("httpserver"))
	if _, err := api.New(srv.Echo(), store, svc, settings,
		api.WithLogger(central.Module("api")),
		api.WithAccessLogger(central.Module("access")),
		api.WithMetrics(metrics),
		api.WithBuildInfo(build),
	); err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("notes-go stopped")
	return nil
}
