// Package api implements the notes HTTP API on top of echo.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/notes-go/internal/buildinfo"
	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/notes"
	"github.com/tphakala/notes-go/internal/observability"
)

// BasePath is the prefix of every API route.
const BasePath = "/api/v1"

// NoteService is the set of note operations the handlers delegate to.
type NoteService interface {
	Limits() notes.Limits
	Create(ctx context.Context, s datastore.Session, in notes.CreateInput) (datastore.Note, error)
	List(ctx context.Context, s datastore.Session) ([]datastore.Note, error)
	Get(ctx context.Context, s datastore.Session, id uint) (datastore.Note, error)
	Update(ctx context.Context, s datastore.Session, id uint, in notes.FullUpdateInput) (datastore.Note, error)
	Patch(ctx context.Context, s datastore.Session, id uint, in notes.PartialUpdateInput) (datastore.Note, error)
	Delete(ctx context.Context, s datastore.Session, id uint) (notes.Acknowledgement, error)
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	Store     datastore.Interface
	Notes     NoteService
	Settings  *conf.Settings
	BuildInfo *buildinfo.Context

	logger       logger.Logger
	accessLogger logger.Logger
	metrics      *observability.Metrics
	startTime    time.Time
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithAccessLogger routes the access log to its own module logger.
func WithAccessLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.accessLogger = l
	}
}

// WithMetrics enables HTTP metrics and, when configured, the /metrics route.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithBuildInfo sets the version reported by the health endpoint.
func WithBuildInfo(b *buildinfo.Context) Option {
	return func(c *Controller) {
		c.BuildInfo = b
	}
}

// New creates the controller, installs the middleware stack and error handler
// on e and registers every route.
func New(e *echo.Echo, store datastore.Interface, svc NoteService, settings *conf.Settings, opts ...Option) (*Controller, error) {
	if e == nil {
		return nil, fmt.Errorf("echo instance is required")
	}
	if store == nil {
		return nil, fmt.Errorf("datastore is required")
	}
	if svc == nil {
		return nil, fmt.Errorf("note service is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings are required")
	}

	c := &Controller{
		Echo:      e,
		Store:     store,
		Notes:     svc,
		Settings:  settings,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Global().Module("api")
	}
	if c.accessLogger == nil {
		c.accessLogger = c.logger.Module("access")
	}
	if c.BuildInfo == nil {
		c.BuildInfo = buildinfo.Current()
	}

	e.HTTPErrorHandler = c.httpErrorHandler
	c.setupMiddleware()

	c.Group = e.Group(BasePath)
	if err := c.initRoutes(); err != nil {
		return nil, err
	}
	return c, nil
}

// initRoutes registers all route groups, turning a panic during registration
// into an error.
func (c *Controller) initRoutes() (err error) {
	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"note routes", c.initNoteRoutes},
		{"health routes", c.initHealthRoutes},
		{"openapi routes", c.initOpenAPIRoutes},
		{"metrics routes", c.initMetricsRoutes},
	}

	for _, initializer := range routeInitializers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("failed to initialize %s: %v", initializer.name, r)
				}
			}()
			initializer.fn()
		}()
		if err != nil {
			return err
		}
		c.logger.Debug("routes initialized", logger.String("group", initializer.name))
	}
	return nil
}

func (c *Controller) initMetricsRoutes() {
	if c.metrics == nil || !c.Settings.Metrics.Enabled {
		return
	}
	path := c.Settings.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	c.Echo.GET(path, echo.WrapHandler(c.metrics.Handler(c.logger.Module("metrics"))))
}
