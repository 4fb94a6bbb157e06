package handlers

import (
	"context"
	"net/http"
	"time"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
	"notes-workspace/internal/storage"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	local              *storage.LocalStore
	remoteConfigured   bool
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(local *storage.LocalStore, remoteConfigured bool) *HealthHandler {
	return &HealthHandler{
		local:              local,
		remoteConfigured:   remoteConfigured,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP checks the local store and reports whether a remote sync
// backend is configured. The remote is never probed here; it is optional
// and its failures degrade rather than break the workspace.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if err := h.local.Ping(checkCtx); err != nil {
		logger.WarnContext(ctx, "local store health check failed", "error", err)
		checks["local_store"] = "error"
		issues = append(issues, "local_store_unavailable")
	} else {
		checks["local_store"] = "ok"
	}

	if h.remoteConfigured {
		checks["remote_sync"] = "configured"
	} else {
		checks["remote_sync"] = "disabled"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: notes.NowISO(),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(ctx, w, httpStatus, response)
}
