package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is an in-memory sliding-window limiter keyed by client IP.
type RateLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	clients map[string][]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(requests, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		clients:  make(map[string][]time.Time),
		stop:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup drops clients with no activity in the last two windows until Stop
// is called.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * rl.window)
			rl.mu.Lock()
			for key, stamps := range rl.clients {
				if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow records a request for key and reports whether it fits in the window,
// along with the remaining budget and when the window resets.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	now := time.Now()
	windowStart := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps := rl.clients[key]
	for len(stamps) > 0 && !stamps[0].After(windowStart) {
		stamps = stamps[1:]
	}

	if len(stamps) >= rl.requests {
		rl.clients[key] = stamps
		return false, 0, stamps[0].Add(rl.window)
	}

	stamps = append(stamps, now)
	rl.clients[key] = stamps
	return true, rl.requests - len(stamps), now.Add(rl.window)
}

// RateLimit applies per-IP rate limiting with the standard X-RateLimit
// response headers.
func RateLimit(requests, windowSeconds int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetTime := limiter.Allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds())+1, 10))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers proxy headers over the raw remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
