package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// newClockedLimiter returns a limiter whose clock the test controls
func newClockedLimiter(cfg RateLimitConfig) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(cfg)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

// ============================================================================
// NewRateLimiter Tests
// ============================================================================

func TestNewRateLimiter_DefaultConfig(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	if rl.rate != 100 {
		t.Errorf("expected default rate 100, got %d", rl.rate)
	}
	if rl.window != time.Minute {
		t.Errorf("expected default window 1m, got %v", rl.window)
	}
	if rl.capacity != 120 {
		t.Errorf("expected capacity 120, got %f", rl.capacity)
	}
}

func TestNewRateLimiter_NegativeBurst_NoBurst(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{Rate: 5, Burst: -1})
	defer rl.Stop()

	if rl.capacity != 5 {
		t.Errorf("expected capacity 5, got %f", rl.capacity)
	}
}

// ============================================================================
// Allow() Tests
// ============================================================================

func TestAllow_FirstRequest_UsesFullCapacity(t *testing.T) {
	t.Parallel()
	rl, _ := newClockedLimiter(RateLimitConfig{Rate: 10, Window: time.Minute, Burst: 5})
	defer rl.Stop()

	d, err := rl.Allow(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Error("expected first request to be allowed")
	}
	if d.Remaining != 14 {
		t.Errorf("expected 14 remaining, got %d", d.Remaining)
	}
	if d.Limit != 10 {
		t.Errorf("expected limit 10, got %d", d.Limit)
	}
}

func TestAllow_ExceedsCapacity_Denies(t *testing.T) {
	t.Parallel()
	rl, _ := newClockedLimiter(RateLimitConfig{Rate: 2, Window: time.Minute, Burst: 1})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if d, _ := rl.Allow(context.Background(), "k"); !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	d, _ := rl.Allow(context.Background(), "k")
	if d.Allowed {
		t.Error("expected fourth request to be denied")
	}
	if d.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", d.Remaining)
	}
}

func TestAllow_DifferentKeys_SeparateBuckets(t *testing.T) {
	t.Parallel()
	rl, _ := newClockedLimiter(RateLimitConfig{Rate: 1, Window: time.Minute, Burst: -1})
	defer rl.Stop()

	if d, _ := rl.Allow(context.Background(), "a"); !d.Allowed {
		t.Error("a should be allowed")
	}
	if d, _ := rl.Allow(context.Background(), "b"); !d.Allowed {
		t.Error("b should be allowed")
	}
	if d, _ := rl.Allow(context.Background(), "a"); d.Allowed {
		t.Error("second a should be denied")
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	rl, now := newClockedLimiter(RateLimitConfig{Rate: 60, Window: time.Minute, Burst: -1})
	defer rl.Stop()

	for i := 0; i < 60; i++ {
		rl.Allow(context.Background(), "k")
	}
	if d, _ := rl.Allow(context.Background(), "k"); d.Allowed {
		t.Fatal("expected bucket to be empty")
	}

	// one token per second
	*now = now.Add(2 * time.Second)
	if d, _ := rl.Allow(context.Background(), "k"); !d.Allowed {
		t.Error("expected refill after two seconds")
	}
}

func TestAllow_TokensCappedAtCapacity(t *testing.T) {
	t.Parallel()
	rl, now := newClockedLimiter(RateLimitConfig{Rate: 10, Window: time.Minute, Burst: 2})
	defer rl.Stop()

	rl.Allow(context.Background(), "k")
	*now = now.Add(time.Hour)

	d, _ := rl.Allow(context.Background(), "k")
	if d.Remaining != 11 {
		t.Errorf("expected 11 remaining after long idle, got %d", d.Remaining)
	}
}

func TestAllow_ResetIsWhenBucketRefills(t *testing.T) {
	t.Parallel()
	rl, now := newClockedLimiter(RateLimitConfig{Rate: 60, Window: time.Minute, Burst: -1})
	defer rl.Stop()

	d, _ := rl.Allow(context.Background(), "k")

	if want := now.Add(time.Second); !d.Reset.Equal(want) {
		t.Errorf("expected reset %v, got %v", want, d.Reset)
	}
}

func TestAllow_ConcurrentAccess_ThreadSafe(t *testing.T) {
	t.Parallel()
	rl, _ := newClockedLimiter(RateLimitConfig{Rate: 50, Window: time.Minute, Burst: -1})
	defer rl.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, _ := rl.Allow(context.Background(), "shared"); d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed, got %d", allowed)
	}
}

func TestCleanup_RemovesIdleBuckets(t *testing.T) {
	t.Parallel()
	rl, now := newClockedLimiter(RateLimitConfig{Rate: 10, Window: time.Minute})
	defer rl.Stop()

	rl.Allow(context.Background(), "old")
	*now = now.Add(3 * time.Minute)
	rl.Allow(context.Background(), "fresh")

	rl.cleanupExpired()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["old"]; ok {
		t.Error("expected idle bucket to be removed")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("expected fresh bucket to be kept")
	}
}

func TestStop_Twice_DoesNotPanic(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	rl.Stop()
}

// ============================================================================
// WindowLimiter Tests
// ============================================================================

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	keys   []string
	err    error
}

func (f *fakeCounter) IncrWithExpire(_ context.Context, namespace, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	full := namespace + ":" + key
	f.keys = append(f.keys, full)
	f.counts[full]++
	return f.counts[full], nil
}

func TestWindowLimiter_AllowsUpToLimitPerWindow(t *testing.T) {
	t.Parallel()
	counter := &fakeCounter{}
	wl := NewWindowLimiter(counter, RateLimitConfig{Rate: 2, Window: time.Minute, Burst: 1})
	start := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)
	wl.now = func() time.Time { return start }

	for i := 0; i < 3; i++ {
		d, err := wl.Allow(context.Background(), "u")
		if err != nil || !d.Allowed {
			t.Fatalf("request %d should be allowed, err=%v", i+1, err)
		}
	}
	d, _ := wl.Allow(context.Background(), "u")
	if d.Allowed {
		t.Error("expected fourth request to be denied")
	}
	if want := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC); !d.Reset.Equal(want) {
		t.Errorf("expected reset at window end %v, got %v", want, d.Reset)
	}

	// next window starts a new counter
	wl.now = func() time.Time { return start.Add(time.Minute) }
	if d, _ := wl.Allow(context.Background(), "u"); !d.Allowed {
		t.Error("expected new window to allow")
	}
	if counter.keys[0] == counter.keys[len(counter.keys)-1] {
		t.Error("expected a distinct key per window")
	}
}

func TestWindowLimiter_CounterError(t *testing.T) {
	t.Parallel()
	wl := NewWindowLimiter(&fakeCounter{err: errors.New("redis down")}, RateLimitConfig{})

	if _, err := wl.Allow(context.Background(), "u"); err == nil {
		t.Error("expected error")
	}
}

// ============================================================================
// RateLimit Middleware Tests
// ============================================================================

type stubLimiter struct {
	decision Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func TestRateLimitMiddleware_AllowedRequest_SetsHeaders(t *testing.T) {
	t.Parallel()
	reset := time.Now().Add(time.Minute)
	limiter := &stubLimiter{decision: Decision{Allowed: true, Limit: 100, Remaining: 99, Reset: reset}}
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	RateLimit(limiter)(handler).ServeHTTP(rr, req)

	if !handler.called {
		t.Error("handler should have been called")
	}
	if rr.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("expected limit header 100, got %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "99" {
		t.Errorf("expected remaining 99, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
	if rr.Header().Get("X-RateLimit-Reset") != strconv.FormatInt(reset.Unix(), 10) {
		t.Errorf("unexpected reset header %q", rr.Header().Get("X-RateLimit-Reset"))
	}
	if limiter.keys[0] != "192.168.1.1" {
		t.Errorf("expected client IP key, got %q", limiter.keys[0])
	}
}

func TestRateLimitMiddleware_DeniedRequest_Returns429(t *testing.T) {
	t.Parallel()
	limiter := &stubLimiter{decision: Decision{Allowed: false, Limit: 2, Reset: time.Now().Add(30 * time.Second)}}
	handler := &captureHandler{}

	rr := httptest.NewRecorder()
	RateLimit(limiter)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
	retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil || retry < 29 || retry > 30 {
		t.Errorf("expected Retry-After ~30, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestRateLimitMiddleware_RetryAfter_MinimumOne(t *testing.T) {
	t.Parallel()
	limiter := &stubLimiter{decision: Decision{Allowed: false, Reset: time.Now().Add(-time.Second)}}

	rr := httptest.NewRecorder()
	RateLimit(limiter)(&captureHandler{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Header().Get("Retry-After") != "1" {
		t.Errorf("expected Retry-After 1, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestRateLimitMiddleware_UsesUserID_WhenAuthenticated(t *testing.T) {
	t.Parallel()
	limiter := &stubLimiter{decision: Decision{Allowed: true}}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-7"))
	RateLimit(limiter)(&captureHandler{}).ServeHTTP(httptest.NewRecorder(), req)

	if limiter.keys[0] != "user-7" {
		t.Errorf("expected user key, got %q", limiter.keys[0])
	}
}

func TestRateLimitMiddleware_LimiterError_FailsOpen(t *testing.T) {
	t.Parallel()
	limiter := &stubLimiter{err: errors.New("redis down")}
	handler := &captureHandler{}

	rr := httptest.NewRecorder()
	RateLimit(limiter)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if !handler.called || rr.Code != http.StatusOK {
		t.Errorf("expected request to pass through, got %d", rr.Code)
	}
}
