package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-core/internal/config"
	"performance-core/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"https://app.example.com"}},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "json",
		},
		Auth: config.AuthConfig{
			Enabled:   true,
			JWTSecret: "test-secret",
			Issuer:    "performance-core",
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func newAuth(t *testing.T, cfg *config.Config) *AuthenticationMiddleware {
	t.Helper()
	auth, err := NewAuthenticationMiddleware(cfg, logger.NewLogger(cfg))
	require.NoError(t, err)
	return auth
}

func TestNewAuthenticationMiddleware_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""

	_, err := NewAuthenticationMiddleware(cfg, logger.NewLogger(cfg))
	assert.Error(t, err)

	cfg.Auth.Enabled = false
	_, err = NewAuthenticationMiddleware(cfg, logger.NewLogger(cfg))
	assert.NoError(t, err)
}

func TestRequireJWT(t *testing.T) {
	auth := newAuth(t, testConfig())

	var seen *Claims
	handler := auth.RequireJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("accepts issued token", func(t *testing.T) {
		token, err := auth.IssueToken("analyst", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "analyst", seen.Subject)
		assert.Equal(t, "api", seen.Scope)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "analyst",
			Issuer:    "performance-core",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.IssueToken("analyst", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Issuer = "someone-else"
	foreign := newAuth(t, cfg)

	token, err := foreign.IssueToken("analyst", time.Hour)
	require.NoError(t, err)

	_, err = newAuth(t, testConfig()).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "analyst",
		Issuer:    "performance-core",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newAuth(t, testConfig()).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireJWT_DisabledPassesThrough(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = false
	handler := newAuth(t, cfg).RequireJWT(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	handler := NewSecurityMiddleware(testConfig()).SecurityHeaders(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "deny", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestCORS(t *testing.T) {
	handler := NewSecurityMiddleware(testConfig()).CORS(okHandler())

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/campaigns", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Webhook-Token")
	})

	t.Run("untrusted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Origin", "https://elsewhere.example.org")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.AllowedOrigins = []string{"*"}
		wildcard := NewSecurityMiddleware(cfg).CORS(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Origin", "https://elsewhere.example.org")
		w := httptest.NewRecorder()
		wildcard.ServeHTTP(w, req)

		assert.Equal(t, "https://elsewhere.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }
	limiter.lastCleanup = now

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	limiter.Allow("10.0.0.3")
	assert.Len(t, limiter.buckets, 1)
}

func TestRateLimiter_Middleware(t *testing.T) {
	handler := NewRateLimiter(1, time.Minute).Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/abc", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_ClientIP(t *testing.T) {
	t.Run("forwarding headers ignored without trusted proxies", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.4:51234"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		req.Header.Set("X-Real-IP", "198.51.100.7")

		assert.Equal(t, "192.0.2.4", limiter.clientIP(req))
	})

	t.Run("trusted proxy forwards the client", func(t *testing.T) {
		limiter, err := NewRateLimiter(1, time.Minute).TrustProxies([]string{"10.0.0.0/8", "192.0.2.4"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.2.3:443"
		assert.Equal(t, "10.1.2.3", limiter.clientIP(req))

		req.Header.Set("X-Real-IP", "198.51.100.7")
		assert.Equal(t, "198.51.100.7", limiter.clientIP(req))

		req.Header.Set("X-Forwarded-For", "203.0.113.9, 192.0.2.4")
		assert.Equal(t, "203.0.113.9", limiter.clientIP(req), "trusted hops are skipped")

		req.Header.Set("X-Forwarded-For", "1.1.1.1, 203.0.113.9, 10.0.0.7")
		assert.Equal(t, "203.0.113.9", limiter.clientIP(req), "spoofed leading entries are ignored")
	})

	t.Run("invalid proxy", func(t *testing.T) {
		_, err := NewRateLimiter(1, time.Minute).TrustProxies([]string{"10.0.0.0/33"})
		assert.Error(t, err)
	})
}

func TestRateLimiter_SpoofedHeaderDoesNotResetLimit(t *testing.T) {
	handler := NewRateLimiter(1, time.Minute).Middleware(okHandler())

	for i, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/abc", nil)
		req.RemoteAddr = "192.0.2.50:40000"
		req.Header.Set("X-Forwarded-For", forwarded)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}
}

func TestCompressionMiddleware(t *testing.T) {
	handler := CompressionMiddleware(okHandler())

	t.Run("compresses api responses", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("skips other paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("skips clients without gzip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
	})
}

func TestNoCacheMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	w := httptest.NewRecorder()
	NoCacheMiddleware(okHandler()).ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
}
