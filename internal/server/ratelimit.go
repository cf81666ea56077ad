package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumescreen/internal/errors"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client bucket survives without requests.
const idleLimiterTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key and evicts buckets that
// have been idle for idleLimiterTTL.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	stop    chan struct{}
	logger  *errors.Logger
}

// NewRateLimiter allows requestsPerMin per key with a bucket of
// burstCapacity. Close stops the eviction loop.
func NewRateLimiter(requestsPerMin int, burstCapacity int, logger *errors.Logger) *RateLimiter {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	rl := &RateLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Every(time.Minute / time.Duration(max(requestsPerMin, 1))),
		burst:   burstCapacity,
		stop:    make(chan struct{}),
		logger:  logger,
	}
	go rl.evictLoop()
	return rl
}

// Allow reports whether key may make a request now. It never blocks.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	rl.mu.Unlock()

	return b.limiter.Allow()
}

// GetStats reports the bucket count and the configured budget.
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"active_limiters": len(rl.buckets),
		"rate_per_second": float64(rl.limit),
		"rate_per_minute": float64(rl.limit) * 60,
		"burst_capacity":  rl.burst,
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(idleLimiterTTL)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idleLimiterTTL {
			delete(rl.buckets, key)
		}
	}
	rl.logger.Debug("Idle rate limit buckets evicted", "remaining", len(rl.buckets))
}

// Close stops the eviction loop.
func (rl *RateLimiter) Close() {
	close(rl.stop)
}

// rateLimitMiddleware rejects requests over the per-key budget with 429
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled || s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			limiter, key := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"limiter", limiter,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				s.Observability.GetMetrics().RecordRateLimitHit(r.Context(), limiter, r.URL.Path)
				writeResponse(w, http.StatusTooManyRequests, ErrorResponse{
					Error:   "Rate limit exceeded",
					Message: "Too many requests",
					Type:    "rate_limit",
				})
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey returns the limiter kind and the bucket key of r. The API
// key wins over the client address when both are enabled.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) (limiter, key string) {
	if byAPIKey {
		if apiKey := requestAPIKey(r); apiKey != "" {
			return "api_key", "api:" + apiKey
		}
	}
	if byIP {
		return "ip", "ip:" + getClientIP(r)
	}
	return "", ""
}

// getClientIP prefers the first valid X-Forwarded-For entry, then
// X-Real-IP, then the connection's remote address.
func getClientIP(r *http.Request) string {
	for ip := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip = strings.TrimSpace(ip); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); net.ParseIP(ip) != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
