package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker probes a single dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler exposes liveness information and optional dependency checks.
type HealthHandler struct {
	startedAt time.Time
	checks    map[string]HealthChecker
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now().UTC(),
		checks:    checks,
	}
}

// Status reports service health. Any failing dependency check degrades the
// response to 503.
func (h *HealthHandler) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}
