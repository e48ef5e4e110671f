// Package httpserver owns the lifecycle of the echo HTTP server: listener
// timeouts, startup and graceful shutdown.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
)

// defaultShutdownTimeout applies when no shutdown timeout is configured.
const defaultShutdownTimeout = 10 * time.Second

// Server wraps an echo instance configured from WebServerSettings.
type Server struct {
	echo     *echo.Echo
	settings conf.WebServerSettings
	logger   logger.Logger
}

// New creates a server. Routes are registered on Echo() before Run is called.
func New(settings *conf.WebServerSettings, l logger.Logger) *Server {
	if l == nil {
		l = logger.Global().Module("httpserver")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = settings.Debug
	// access logging goes through the structured logger middleware
	e.Logger.SetLevel(log.OFF)

	e.Server.ReadTimeout = settings.ReadTimeout
	e.Server.WriteTimeout = settings.WriteTimeout
	e.Server.ReadHeaderTimeout = settings.ReadTimeout

	return &Server{
		echo:     e,
		settings: *settings,
		logger:   l,
	}
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Addr returns the listening address, or nil before the listener is up.
func (s *Server) Addr() net.Addr {
	return s.echo.ListenerAddr()
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server starting", logger.String("address", s.settings.Address()))
		if err := s.echo.Start(s.settings.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.New(err).
				Component("httpserver").
				Category(errors.CategoryNetwork).
				Context("address", s.settings.Address()).
				Build()
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.Shutdown()
	})

	return g.Wait()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	timeout := s.settings.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down", logger.Duration("timeout", timeout))
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", logger.Error(err))
		return errors.New(err).
			Component("httpserver").
			Category(errors.CategorySystem).
			Context("operation", "shutdown").
			Build()
	}
	s.logger.Info("HTTP server shutdown complete")
	return nil
}
