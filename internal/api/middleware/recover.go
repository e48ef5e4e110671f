package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/telemetry"
)

// NewRecover turns a handler panic into a system error, reports it and
// passes it to echo's error handler, which answers 500.
func NewRecover(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll:   true,
		DisablePrintStack: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			if log != nil {
				log.WithContext(c.Request().Context()).Error("panic recovered",
					logger.String("method", c.Request().Method),
					logger.String("path", c.Path()),
					logger.Error(err),
					logger.String("stack", string(stack)))
			}
			return telemetry.CapturePanic(err, "api")
		},
	})
}
