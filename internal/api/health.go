package api

import (
	"net/http"
	"time"

	"fintrack/internal/service"
)

// HealthHandler serves liveness probes. These routes sit outside the auth
// boundary so orchestrators can reach them without credentials.
type HealthHandler struct {
	health  *service.HealthService
	version string
	started time.Time
}

// NewHealthHandler creates the health endpoints.
func NewHealthHandler(health *service.HealthService, version string) *HealthHandler {
	return &HealthHandler{health: health, version: version, started: time.Now()}
}

// Live reports process liveness only.
// GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Database reports dependency health. A broken database answers 200 with a
// degraded body: the probe itself succeeded.
// GET /health/db
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.health.Check(r.Context()))
}
