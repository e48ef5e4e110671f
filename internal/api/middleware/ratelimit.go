package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// rateLimitExpiry is how long an idle client's limiter is kept.
const rateLimitExpiry = 3 * time.Minute

// NewRateLimiter limits each client IP to perSecond requests with the given
// burst. It returns nil when perSecond is not positive.
func NewRateLimiter(perSecond float64, burst int, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: rateLimitExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			if m != nil {
				m.RecordRateLimited(routePath(c))
			}
			return echo.ErrTooManyRequests
		},
	})
}
