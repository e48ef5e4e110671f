package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// StatusFunc maps a handler error to the status code the error handler will send.
type StatusFunc func(err error) int

// NewHTTPMetrics records request count, latency and response size per route
// template. status resolves the final code of requests that return an error.
func NewHTTPMetrics(m *metrics.HTTPMetrics, status StatusFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			m.RequestStarted()
			defer m.RequestFinished()

			start := time.Now()
			err := next(c)

			code := c.Response().Status
			if err != nil && !c.Response().Committed {
				code = status(err)
			}
			m.RecordHTTPRequest(
				c.Request().Method,
				routePath(c),
				strconv.Itoa(code),
				time.Since(start).Seconds(),
				c.Response().Size,
			)
			return err
		}
	}
}

// routePath returns the matched route template so ids do not explode label cardinality.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedRoute
}
