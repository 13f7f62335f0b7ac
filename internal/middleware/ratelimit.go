package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a request for key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate    int           // Requests per window (default 100)
	Window  time.Duration // Time window (default 1 minute)
	Burst   int           // Extra capacity above Rate (default 20)
	Cleanup time.Duration // Idle bucket sweep interval (default 5 minutes)
}

func (c *RateLimitConfig) withDefaults() {
	if c.Rate <= 0 {
		c.Rate = 100
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.Burst < 0 {
		c.Burst = 0
	} else if c.Burst == 0 {
		c.Burst = 20
	}
	if c.Cleanup <= 0 {
		c.Cleanup = 5 * time.Minute
	}
}

// ============================================================================
// In-memory token bucket
// ============================================================================

// RateLimiter is a per-process token bucket. Each key holds up to
// Rate+Burst tokens and refills at Rate per Window.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	window   time.Duration
	capacity float64
	cleanup  time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a token bucket limiter and starts its sweeper
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	cfg.withDefaults()
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		capacity: float64(cfg.Rate + cfg.Burst),
		cleanup:  cfg.Cleanup,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop stops the sweeper goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanupExpired drops buckets idle long enough to have refilled
func (rl *RateLimiter) cleanupExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window * 2)
	for key, b := range rl.buckets {
		if b.last.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) refillPerSecond() float64 {
	return float64(rl.rate) / rl.window.Seconds()
}

// Allow takes one token for key
func (rl *RateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, last: now}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last).Seconds()
		b.tokens = math.Min(rl.capacity, b.tokens+elapsed*rl.refillPerSecond())
		b.last = now
	}

	d := Decision{Limit: rl.rate}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
	}
	d.Remaining = int(b.tokens)

	missing := rl.capacity - b.tokens
	d.Reset = now.Add(time.Duration(missing / rl.refillPerSecond() * float64(time.Second)))
	return d, nil
}

// ============================================================================
// Redis fixed window
// ============================================================================

// WindowCounter increments a counter that expires after window
type WindowCounter interface {
	IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error)
}

// WindowLimiter is a fixed-window limiter shared across instances through a
// WindowCounter. It allows Rate+Burst requests per window.
type WindowLimiter struct {
	counter WindowCounter
	limit   int
	rate    int
	window  time.Duration
	now     func() time.Time
}

// NewWindowLimiter creates a shared fixed-window limiter
func NewWindowLimiter(counter WindowCounter, cfg RateLimitConfig) *WindowLimiter {
	cfg.withDefaults()
	return &WindowLimiter{
		counter: counter,
		limit:   cfg.Rate + cfg.Burst,
		rate:    cfg.Rate,
		window:  cfg.Window,
		now:     time.Now,
	}
}

// Allow counts a request against the current window
func (wl *WindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	start := wl.now().Truncate(wl.window)
	reset := start.Add(wl.window)

	n, err := wl.counter.IncrWithExpire(ctx, "ratelimit", fmt.Sprintf("%s:%d", key, start.Unix()), wl.window)
	if err != nil {
		return Decision{}, err
	}

	remaining := wl.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   int(n) <= wl.limit,
		Limit:     wl.rate,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// ============================================================================
// Middleware
// ============================================================================

// RateLimit applies limiter per user, or per client IP before auth. A
// limiter error lets the request through.
func RateLimit(limiter Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			d, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("rate limiter unavailable", "error", err, "request_id", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

			if !d.Allowed {
				retryAfter := int(math.Ceil(time.Until(d.Reset).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
