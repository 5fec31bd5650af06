package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/elo/pkg/metrics"
	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle client entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			endpoint := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			durationMs := float64(time.Since(start).Microseconds()) / 1000
			m.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode), durationMs)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP and prunes idle ones.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates a limiter allowing rps requests per second with
// the given burst for every client.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientEntry),
		r:       rate.Limit(rps),
		b:       burst,
	}
}

// GetLimiter returns the limiter for ip.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.clients) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.clients {
			if e.lastSeen.Before(cutoff) {
				delete(l.clients, k)
			}
		}
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimitMiddleware rejects requests from clients over their budget with 429.
func RateLimitMiddleware(l *IPRateLimiter, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !l.GetLimiter(ip).Allow() {
				m.RecordRateLimited(r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", NewKind("api.rate_limit", ErrRateLimited))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
