package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// RecentUserLister lists users active since a point in time
type RecentUserLister interface {
	ListRecentlyActive(ctx context.Context, since time.Time, limit int) ([]string, error)
}

// ScoreWarmer recomputes and stores a user's ranked candidates
type ScoreWarmer interface {
	WarmScores(ctx context.Context, userID string) (int, error)
}

// CacheWarmerConfig holds configuration for the cache warmer
type CacheWarmerConfig struct {
	Users       RecentUserLister
	Warmer      ScoreWarmer
	Interval    time.Duration // default 10 minutes
	ActiveSince time.Duration // default 24 hours
	BatchSize   int           // default 100
	StartDelay  time.Duration // wait before the first run; negative disables it
	Now         func() time.Time
}

// WarmResult summarizes one warming pass
type WarmResult struct {
	Users  int
	Scores int
	Failed int
}

// CacheWarmer periodically re-ranks candidates for recently active users so
// their compatibility scores are already cached when they open discovery
type CacheWarmer struct {
	users       RecentUserLister
	warmer      ScoreWarmer
	interval    time.Duration
	activeSince time.Duration
	batchSize   int
	startDelay  time.Duration
	now         func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewCacheWarmer creates a new cache warmer job
func NewCacheWarmer(cfg CacheWarmerConfig) *CacheWarmer {
	w := &CacheWarmer{
		users:       cfg.Users,
		warmer:      cfg.Warmer,
		interval:    cfg.Interval,
		activeSince: cfg.ActiveSince,
		batchSize:   cfg.BatchSize,
		startDelay:  cfg.StartDelay,
		now:         cfg.Now,
		stopCh:      make(chan struct{}),
	}
	if w.interval <= 0 {
		w.interval = 10 * time.Minute
	}
	if w.activeSince <= 0 {
		w.activeSince = 24 * time.Hour
	}
	if w.batchSize <= 0 {
		w.batchSize = 100
	}
	if w.startDelay == 0 {
		w.startDelay = 5 * time.Second
	}
	if w.now == nil {
		w.now = time.Now
	}
	return w
}

// Start begins the cache warmer job
func (w *CacheWarmer) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()
	slog.Info("cache warmer started", "interval", w.interval, "active_since", w.activeSince)
}

// Stop gracefully stops the cache warmer job
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	slog.Info("cache warmer stopped")
}

func (w *CacheWarmer) run() {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopCh
		cancel()
	}()

	if w.startDelay > 0 {
		select {
		case <-time.After(w.startDelay):
		case <-w.stopCh:
			return
		}
	}
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-w.stopCh:
			return
		}
	}
}

func (w *CacheWarmer) warm(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, w.interval)
	defer cancel()

	result, err := w.RunOnce(ctx)
	if err != nil {
		slog.Error("cache warming failed", "error", err, "users", result.Users, "failed", result.Failed)
		return
	}
	slog.Info("cache warmed", "users", result.Users, "scores", result.Scores, "failed", result.Failed)
}

// RunOnce warms scores for every recently active user once. Individual user
// failures are counted, not returned.
func (w *CacheWarmer) RunOnce(ctx context.Context) (WarmResult, error) {
	var result WarmResult

	userIDs, err := w.users.ListRecentlyActive(ctx, w.now().Add(-w.activeSince), w.batchSize)
	if err != nil {
		return result, err
	}

	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		n, err := w.warmer.WarmScores(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			result.Failed++
			slog.Debug("skipping user during cache warm", "user_id", id, "error", err)
			continue
		}
		result.Users++
		result.Scores += n
	}
	return result, nil
}

// IsRunning returns whether the warmer is running
func (w *CacheWarmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
