package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/tphakala/notes-go/internal/logger"
)

// healthPingTimeout bounds the database check of a health request.
const healthPingTimeout = 2 * time.Second

func (c *Controller) initHealthRoutes() {
	c.Group.GET("/health", c.HealthCheck)
}

// HealthCheck handles GET /api/v1/health. It answers 503 when the database
// does not respond to a ping.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	status := http.StatusOK
	response := map[string]any{
		"status":     "healthy",
		"version":    c.BuildInfo.Version(),
		"build_date": c.BuildInfo.BuildDate(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"database": map[string]any{
			"driver": c.Store.Driver(),
			"status": "connected",
		},
	}
	if c.Settings.Main.Name != "" {
		response["instance"] = c.Settings.Main.Name
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), healthPingTimeout)
	defer cancel()
	if err := c.Store.Ping(pingCtx); err != nil {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
		response["database"] = map[string]any{
			"driver": c.Store.Driver(),
			"status": "disconnected",
		}
		c.logger.WithContext(ctx.Request().Context()).Warn("health check database ping failed", logger.Error(err))
	}

	uptime := time.Since(c.startTime)
	response["uptime"] = uptime.Round(time.Second).String()
	response["uptime_seconds"] = uptime.Seconds()
	response["system"] = map[string]any{
		"memory": memoryStats(ctx.Request().Context()),
	}

	return ctx.JSON(status, response)
}

// memoryStats reports host memory usage. Failures are reported as an
// unavailable section instead of failing the health check.
func memoryStats(ctx context.Context) map[string]any {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return map[string]any{"available": false}
	}
	return map[string]any{
		"available":    true,
		"total":        bytes.Format(int64(vm.Total)),
		"used":         bytes.Format(int64(vm.Used)),
		"used_percent": vm.UsedPercent,
	}
}
