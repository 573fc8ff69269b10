package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/version"
)

// HealthChecker probes the challenge platform.
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthStatus, error)
}

// MonitoringHandlers serves liveness information.
type MonitoringHandlers struct {
	platform HealthChecker
	started  time.Time
}

// NewMonitoringHandlers creates monitoring handlers. platform may be nil.
func NewMonitoringHandlers(platform HealthChecker) *MonitoringHandlers {
	return &MonitoringHandlers{platform: platform, started: time.Now()}
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Platform string `json:"platform,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleHealth reports local liveness and, when configured, platform reachability.
func (h *MonitoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Version: version.Version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	}
	status := http.StatusOK
	if h.platform != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		hs, err := h.platform.Health(ctx)
		if err != nil {
			resp.Status = "degraded"
			resp.Platform = "unreachable"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Platform = hs.Status
		}
	}
	_ = writeJSON(w, status, resp)
}
