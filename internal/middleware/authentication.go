package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"performance-core/internal/config"
	"performance-core/internal/logger"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// ClaimsContextKey is the context key for the verified token claims
const ClaimsContextKey ContextKey = "claims"

// ErrInvalidToken is returned for bearer tokens that fail verification
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims accepted by the API
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticationMiddleware guards the REST API with HS256 bearer tokens
type AuthenticationMiddleware struct {
	logger  *logger.Logger
	enabled bool
	secret  []byte
	issuer  string
}

// NewAuthenticationMiddleware creates a new authentication middleware
func NewAuthenticationMiddleware(cfg *config.Config, logger *logger.Logger) (*AuthenticationMiddleware, error) {
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required when auth is enabled")
	}
	return &AuthenticationMiddleware{
		logger:  logger,
		enabled: cfg.Auth.Enabled,
		secret:  []byte(cfg.Auth.JWTSecret),
		issuer:  cfg.Auth.Issuer,
	}, nil
}

// RequireJWT rejects requests without a valid bearer token. It passes
// everything through when auth is disabled.
func (m *AuthenticationMiddleware) RequireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			http.Error(w, "Bearer token required", http.StatusUnauthorized)
			return
		}

		claims, err := m.ValidateToken(authHeader[len(bearerPrefix):])
		if err != nil {
			m.logger.WithError(err).Warn("JWT validation failed")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateToken parses and verifies a bearer token
func (m *AuthenticationMiddleware) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueToken signs a token for subject valid for ttl
func (m *AuthenticationMiddleware) IssueToken(subject string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("no JWT secret configured")
	}

	now := time.Now()
	claims := Claims{
		Scope: "api",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// GetClaimsFromContext extracts the verified claims from the request context
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
