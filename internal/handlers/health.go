package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"performance-core/internal/database"
	"performance-core/internal/services"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is a dependency the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a health handler probing the database and Redis
func NewHealthHandler(db *database.Connection, cache *services.CacheService) *HealthHandler {
	return &HealthHandler{
		checks: map[string]Pinger{
			"database": db,
			"redis":    cache,
		},
	}
}

// ComponentHealth is the state of one dependency
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                      `json:"status"`
	Timestamp  time.Time                   `json:"timestamp"`
	Components map[string]*ComponentHealth `json:"components"`
}

// RegisterRoutes registers the health endpoints
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealthCheck).Methods("GET")
	router.HandleFunc("/health/live", h.HandleLivenessProbe).Methods("GET")
	router.HandleFunc("/health/ready", h.HandleReadinessProbe).Methods("GET")
}

// HandleHealthCheck handles the main health check endpoint
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := h.probe(r.Context())

	overallStatus := "healthy"
	for _, component := range components {
		if component.Status != "healthy" {
			overallStatus = "unhealthy"
			break
		}
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, statusCode, HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now().UTC(),
		Components: components,
	})
}

// HandleLivenessProbe handles Kubernetes liveness probe
func (h *HealthHandler) HandleLivenessProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleReadinessProbe reports ready once the database answers
func (h *HealthHandler) HandleReadinessProbe(w http.ResponseWriter, r *http.Request) {
	components := h.probe(r.Context())
	if db, ok := components["database"]; ok && db.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Service Unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (h *HealthHandler) probe(ctx context.Context) map[string]*ComponentHealth {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]*ComponentHealth, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		start := time.Now()
		err := h.checks[name].Ping(checkCtx)
		cancel()

		component := &ComponentHealth{Status: "healthy", Latency: time.Since(start).String()}
		if err != nil {
			component.Status = "unhealthy"
			component.Message = err.Error()
		}
		components[name] = component
	}
	return components
}
