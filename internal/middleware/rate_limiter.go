package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window limiter keyed by client address
type RateLimiter struct {
	buckets map[string]*bucket
	mutex   sync.Mutex

	maxRequests    int
	window         time.Duration
	lastCleanup    time.Time
	now            func() time.Time
	trustedProxies []*net.IPNet
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window per client
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// TrustProxies sets the proxies whose forwarding headers name the client.
// Entries are IPs or CIDRs. Requests from anywhere else are keyed by their
// remote address.
func (rl *RateLimiter) TrustProxies(proxies []string) (*RateLimiter, error) {
	nets := make([]*net.IPNet, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		nets = append(nets, ipNet)
	}
	rl.trustedProxies = nets
	return rl, nil
}

// Allow checks if a request from the given client should be allowed
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	if now.Sub(rl.lastCleanup) > 10*rl.window {
		rl.cleanupOldBuckets(now)
	}

	b, exists := rl.buckets[clientID]
	if !exists || now.Sub(b.lastRefill) >= rl.window {
		b = &bucket{tokens: rl.maxRequests, lastRefill: now}
		rl.buckets[clientID] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// cleanupOldBuckets removes buckets whose window has long passed
func (rl *RateLimiter) cleanupOldBuckets(now time.Time) {
	cutoff := now.Add(-rl.window)
	for clientID, b := range rl.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(rl.buckets, clientID)
		}
	}
	rl.lastCleanup = now
}

// Middleware answers 429 once a client is over its limit
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the remote address, or the forwarded client when the remote
// address is a trusted proxy
func (rl *RateLimiter) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !rl.trusted(remote) {
		return remote
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		// Walk back from the nearest hop; the first untrusted address is the client
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !rl.trusted(hop) {
				return hop
			}
		}
		return strings.TrimSpace(hops[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	return remote
}

func (rl *RateLimiter) trusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range rl.trustedProxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
