package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/teemow/things3-mcp/internal/things"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// probeTimeout bounds the Things probes run by the detailed endpoint.
const probeTimeout = 5 * time.Second

// HealthChecker serves /healthz, /readyz and /healthz/detailed. It starts
// out ready.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. sc may be nil in tests.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

func (h *HealthChecker) SetReady(ready bool) { h.ready.Store(ready) }

func (h *HealthChecker) IsReady() bool { return h.ready.Load() }

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status   string         `json:"status"`
	Uptime   string         `json:"uptime"`
	ReadOnly bool           `json:"read_only"`
	Things   *things.Status `json:"things,omitempty"`
}

func writeHealth(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler answers ok while the process is up. It never probes
// Things.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler answers 503 once readiness is withdrawn or the server
// context has shut down.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: healthStatusOK,
			Checks: map[string]string{"ready": healthStatusOK, "shutdown": healthStatusOK},
		}
		if !h.IsReady() {
			resp.Checks["ready"] = healthStatusNotReady
			resp.Status = healthStatusNotReady
		}
		if h.shuttingDown() {
			resp.Checks["shutdown"] = healthStatusShuttingDown
			resp.Status = healthStatusNotReady
		}

		code := http.StatusOK
		if resp.Status != healthStatusOK {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, resp)
	})
}

// DetailedHealthHandler also reports whether Things is installed and
// running. It runs the interpreter on every request.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}

		code := http.StatusOK
		switch {
		case !h.IsReady():
			resp.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		case h.shuttingDown():
			resp.Status = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		}

		if h.sc != nil {
			resp.ReadOnly = h.sc.ReadOnly()
			if client := h.sc.Client(); client != nil {
				ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
				status := client.Status(ctx)
				cancel()
				resp.Things = &status
			}
		}
		writeHealth(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts the three endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
