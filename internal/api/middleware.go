package api

import (
	"github.com/labstack/echo/v4"

	mw "github.com/tphakala/notes-go/internal/api/middleware"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// setupMiddleware configures the Echo middleware stack. Recover must come first.
func (c *Controller) setupMiddleware() {
	var httpMetrics *metrics.HTTPMetrics
	if c.metrics != nil {
		httpMetrics = c.metrics.HTTP
	}
	ws := c.Settings.WebServer

	security := mw.DefaultSecurityConfig()
	security.AllowedOrigins = ws.CORSOrigins

	stack := []echo.MiddlewareFunc{
		mw.NewRecover(c.logger),
		mw.NewRequestID(),
	}
	if ws.BodyLimit != "" {
		stack = append(stack, mw.NewBodyLimit(ws.BodyLimit))
	}
	stack = append(stack,
		mw.NewRateLimiter(ws.RateLimit, ws.RateBurst, httpMetrics),
		mw.NewRequestLogger(c.accessLogger),
		mw.NewHTTPMetrics(httpMetrics, statusCode),
		mw.NewCORS(security),
		mw.NewSecureHeaders(security),
	)

	for _, m := range stack {
		// optional middleware constructors return nil when disabled
		if m != nil {
			c.Echo.Use(m)
		}
	}
}
