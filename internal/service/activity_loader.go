package service

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ActivityBatchFetcher loads recent activity for many users in one query
type ActivityBatchFetcher interface {
	GetRecentActivityForUsers(ctx context.Context, userIDs []string, windowDays int) (map[string][]model.ActivityEvent, error)
}

// DefaultLoaderWait is how long the loader collects keys before a batch
const DefaultLoaderWait = 5 * time.Millisecond

// ActivityLoader batches concurrent activity lookups from a ranking pass
// into a single store query. Create one per request; results are cached
// for the loader's lifetime.
type ActivityLoader struct {
	loader *dataloader.Loader[string, []model.ActivityEvent]
}

// NewActivityLoader creates a loader over the given fetcher
func NewActivityLoader(fetcher ActivityBatchFetcher, windowDays int, wait time.Duration) *ActivityLoader {
	if windowDays <= 0 {
		windowDays = model.ActivityWindowDays
	}
	if wait <= 0 {
		wait = DefaultLoaderWait
	}

	batchFn := func(ctx context.Context, userIDs []string) []*dataloader.Result[[]model.ActivityEvent] {
		results := make([]*dataloader.Result[[]model.ActivityEvent], len(userIDs))

		byUser, err := fetcher.GetRecentActivityForUsers(ctx, userIDs, windowDays)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[[]model.ActivityEvent]{Error: err}
			}
			return results
		}

		for i, id := range userIDs {
			results[i] = &dataloader.Result[[]model.ActivityEvent]{Data: byUser[id]}
		}
		return results
	}

	return &ActivityLoader{
		loader: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait[string, []model.ActivityEvent](wait),
		),
	}
}

// Load returns the user's recent activity. It satisfies ActivityLookup.
func (l *ActivityLoader) Load(ctx context.Context, userID string) ([]model.ActivityEvent, error) {
	return l.loader.Load(ctx, userID)()
}
