package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-core/internal/config"
	"performance-core/internal/handlers"
	"performance-core/internal/logger"
	"performance-core/internal/middleware"
)

func newTestServer(t *testing.T) (*Server, *middleware.AuthenticationMiddleware) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			AllowedOrigins: []string{"https://app.example.com"},
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
		Auth:    config.AuthConfig{Enabled: true, JWTSecret: "test-secret", Issuer: "performance-core"},
	}
	log := logger.NewLogger(cfg)

	auth, err := middleware.NewAuthenticationMiddleware(cfg, log)
	require.NoError(t, err)

	h := Handlers{
		Campaigns:    handlers.NewCampaignHandler(log, nil),
		Performance:  handlers.NewPerformanceHandler(log, nil),
		Benchmarks:   handlers.NewBenchmarkHandler(log, nil),
		Integrations: handlers.NewIntegrationHandler(log, nil),
		DataSources:  handlers.NewDataSourceHandler(log, nil, nil),
		Health:       &handlers.HealthHandler{},
	}

	s, err := NewServer(cfg, log, h, auth, middleware.NewSecurityMiddleware(cfg))
	require.NoError(t, err)
	return s, auth
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_APIRequiresToken(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{
		"/api/v1/campaigns",
		"/api/v1/dashboard/metrics",
		"/api/v1/benchmarks/industries",
		"/api/v1/integrations",
		"/api/v1/data-sources/abc/columns",
	} {
		w := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"), path)
	}
}

func TestServer_HealthIsPublic(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = do(s, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServer_MetricsCountRequests(t *testing.T) {
	s, _ := newTestServer(t)

	do(s, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	w := do(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `performance_core_http_requests_total{method="GET",route="/health/live",status="200"}`)
}

func TestServer_Preflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/campaigns", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := do(s, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_UnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Timeouts(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Server.ReadTimeout = 5
	s.setupHTTPServer()

	assert.Equal(t, 5*time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, ":0", s.httpServer.Addr)
}

func TestNewServer_RejectsBadTrustedProxy(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{TrustedProxies: []string{"not-an-ip"}},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
	log := logger.NewLogger(cfg)
	auth, err := middleware.NewAuthenticationMiddleware(cfg, log)
	require.NoError(t, err)

	_, err = NewServer(cfg, log, Handlers{Health: &handlers.HealthHandler{}}, auth, middleware.NewSecurityMiddleware(cfg))
	assert.Error(t, err)
}
