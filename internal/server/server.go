package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"performance-core/internal/config"
	"performance-core/internal/handlers"
	"performance-core/internal/logger"
	"performance-core/internal/middleware"
)

// APIPrefix is the path prefix of the REST API
const APIPrefix = "/api/v1"

const (
	publicRateLimit  = 120
	publicRateWindow = time.Minute
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "performance_core_http_requests_total",
	Help: "HTTP requests by method, route and status",
}, []string{"method", "route", "status"})

// Handlers groups the HTTP handlers mounted by the server
type Handlers struct {
	Campaigns    *handlers.CampaignHandler
	Performance  *handlers.PerformanceHandler
	Benchmarks   *handlers.BenchmarkHandler
	Integrations *handlers.IntegrationHandler
	DataSources  *handlers.DataSourceHandler
	Health       *handlers.HealthHandler
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	router     *mux.Router
	httpServer *http.Server
	handlers   Handlers
	auth       *middleware.AuthenticationMiddleware
	security   *middleware.SecurityMiddleware
	limiter    *middleware.RateLimiter
}

// NewServer creates a new HTTP server
func NewServer(
	config *config.Config,
	logger *logger.Logger,
	h Handlers,
	auth *middleware.AuthenticationMiddleware,
	security *middleware.SecurityMiddleware,
) (*Server, error) {
	limiter, err := middleware.NewRateLimiter(publicRateLimit, publicRateWindow).TrustProxies(config.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("failed to configure rate limiter: %w", err)
	}

	server := &Server{
		config:   config,
		logger:   logger,
		router:   mux.NewRouter(),
		handlers: h,
		auth:     auth,
		security: security,
		limiter:  limiter,
	}

	server.setupRoutes()
	server.setupHTTPServer()

	return server, nil
}

// Handler returns the root handler. CORS wraps the router so preflight
// requests are answered before route method matching.
func (s *Server) Handler() http.Handler {
	return s.security.CORS(s.router)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health and metrics (no auth required)
	s.handlers.Health.RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix(APIPrefix).Subrouter()
	api.Use(middleware.NoCacheMiddleware)

	// OAuth redirects and webhooks authenticate on their own
	public := api.NewRoute().Subrouter()
	public.Use(s.limiter.Middleware)
	s.handlers.Integrations.RegisterCallbackRoutes(public)
	s.handlers.DataSources.RegisterWebhookRoutes(public)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.auth.RequireJWT)
	s.handlers.Campaigns.RegisterRoutes(protected)
	s.handlers.Performance.RegisterRoutes(protected)
	s.handlers.Benchmarks.RegisterRoutes(protected)
	s.handlers.Integrations.RegisterRoutes(protected)
	s.handlers.DataSources.RegisterRoutes(protected)

	// Order matters: logging sees the final status
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.security.SecurityHeaders)
	s.router.Use(middleware.CompressionMiddleware)
}

// setupHTTPServer configures the HTTP server
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	// Start server - this will block until the server is shut down
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("HTTP server error")
		return err
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := routeTemplate(r)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()

		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}).Info("HTTP request")
	})
}

// routeTemplate keeps metric cardinality bounded by ids
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
