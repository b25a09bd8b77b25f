package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/services"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	store    caching.CredentialStore
	archiver services.ImportArchiver
	version  string
	started  time.Time
}

// NewHealthHandlers creates a new health handlers instance. archiver may be
// nil when import archiving is not configured.
func NewHealthHandlers(store caching.CredentialStore, archiver services.ImportArchiver, version string) *HealthHandlers {
	return &HealthHandlers{
		store:    store,
		archiver: archiver,
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// HealthCheck reports the session store and import storage. The console
// cannot serve anyone without its session store.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}
	statusCode := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		health.Services["session_store"] = "unhealthy"
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		health.Services["session_store"] = "healthy"
	}

	switch {
	case h.archiver == nil:
		health.Services["storage"] = "disabled"
	case h.archiver.Ping(ctx) != nil:
		health.Services["storage"] = "unhealthy"
		if statusCode == http.StatusOK {
			health.Status = "degraded"
			statusCode = http.StatusPartialContent
		}
	default:
		health.Services["storage"] = "healthy"
	}

	return c.JSON(statusCode, health)
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
