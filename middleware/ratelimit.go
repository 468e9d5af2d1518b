// ABOUTME: Per-client rate limiting middleware using token buckets
// ABOUTME: Keys requests by session cookie or client IP, sweeps idle limiters

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client pairs a limiter with its last activity, for the idle sweep.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a token-bucket limit per key. Each unique key
// (session or IP) gets an independent limiter.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter allowing ratePerMinute requests per
// minute per key, with the given burst. Idle limiters are swept every
// few minutes.
func NewRateLimiter(ratePerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate.Limit(float64(ratePerMinute) / 60.0),
		burst:   burst,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request for the given key is within limits.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// sweep drops limiters idle for more than three minutes.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for key, c := range rl.clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// ClientIP extracts the client IP from X-Forwarded-For (leftmost) or
// RemoteAddr. Trusting X-Forwarded-For assumes a reverse proxy in front.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		ip := strings.TrimSpace(parts[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// SessionKey keys by the session cookie, falling back to client IP.
func SessionKey(r *http.Request) string {
	if id := SessionID(r); id != "" {
		return "session:" + id
	}
	return ClientIP(r)
}

// RateLimit returns middleware enforcing the limiter with the given key
// function. A nil limiter disables the middleware.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := keyFunc(r)
			if key == "" || limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Warn("Rate limit exceeded", "key", key, "path", r.URL.Path)
			writeJSONError(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
		})
	}
}

// RateLimitWhere applies the limiter only to requests the match function
// selects; everything else passes straight through. Lets credential and
// listing-mutation endpoints carry tighter budgets than the rest.
func RateLimitWhere(match func(*http.Request) bool, limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		limited := RateLimit(limiter, keyFunc)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match(r) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
