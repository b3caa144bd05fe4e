package handlers

import (
	"net/http"

	"warehouse-backend/internal/health"
	"warehouse-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth - for Kubernetes liveness probe
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth - for Kubernetes readiness probe. A degraded cache still
// counts as ready.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic(r.Context())
	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// DetailedHealth - for the monitoring dashboard
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.checker.CheckDetailed(r.Context()))
}
