package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cortexai/toolhost/internal/models"
)

type slidingWindow struct {
	mu        sync.Mutex
	requests  []time.Time
	limit     int
	windowDur time.Duration
}

// allow records a request if the window has room. When it has not, retryIn
// is the time until the oldest request leaves the window.
func (sw *slidingWindow) allow(now time.Time) (remaining int, retryIn time.Duration, ok bool) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := now.Add(-sw.windowDur)

	valid := sw.requests[:0]
	for _, t := range sw.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	sw.requests = valid

	if len(sw.requests) >= sw.limit {
		return 0, sw.requests[0].Sub(cutoff), false
	}
	sw.requests = append(sw.requests, now)
	return sw.limit - len(sw.requests), 0, true
}

func (sw *slidingWindow) idleSince(cutoff time.Time) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.requests) == 0 || sw.requests[len(sw.requests)-1].Before(cutoff)
}

// RateLimiter keeps one sliding window per client key.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		windows: make(map[string]*slidingWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for range ticker.C {
			rl.cleanup()
		}
	}()
	return rl
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.window)
	for key, sw := range rl.windows {
		if sw.idleSince(cutoff) {
			delete(rl.windows, key)
		}
	}
}

func (rl *RateLimiter) get(key string) *slidingWindow {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if sw, ok := rl.windows[key]; ok {
		return sw
	}
	sw := &slidingWindow{limit: rl.limit, windowDur: rl.window}
	rl.windows[key] = sw
	return sw
}

// Allow records a request for key.
func (rl *RateLimiter) Allow(key string) (remaining int, retryIn time.Duration, ok bool) {
	return rl.get(key).allow(rl.now())
}

// RateLimit allows limit requests per window for each client, keyed by the
// API key header or, without one, the remote address.
func RateLimit(limit int, window time.Duration, keyHeader string) func(http.Handler) http.Handler {
	rl := NewRateLimiter(limit, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(keyHeader)
			if key == "" {
				key = r.RemoteAddr
			}

			remaining, retryIn, ok := rl.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				secs := int(retryIn.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				models.WriteError(w, http.StatusTooManyRequests, models.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
