package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	service string
	checks  map[string]Pinger
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler checking every named dependency.
func NewHealthHandler(service string, checks map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, logger: logger}
}

// healthResponse is the JSON body returned by health endpoints.
type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns 200 if the process is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "UP",
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness returns 200 when every dependency answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "UP",
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
	}
	code := http.StatusOK
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			resp.Checks[name] = fmt.Sprintf("DOWN: %v", err)
			resp.Status = "DOWN"
			code = http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			continue
		}
		resp.Checks[name] = "UP"
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
