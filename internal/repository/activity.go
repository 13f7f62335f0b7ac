package repository

import (
	"context"
	"time"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ActivityRepository handles the per-user activity log
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// RecordStatement returns the statement that appends one event, for use in
// an AtomicBatch alongside other writes
func RecordStatement(userID, activityType string) (string, map[string]interface{}) {
	return `CREATE activity SET user = type::record($user_id), type = $type, occurred_at = time::now()`,
		map[string]interface{}{
			"user_id": userID,
			"type":    activityType,
		}
}

// Record appends one event to the user's log
func (r *ActivityRepository) Record(ctx context.Context, userID, activityType string) error {
	query, vars := RecordStatement(userID, activityType)
	return r.db.Execute(ctx, query, vars)
}

// GetRecentActivityForUsers returns the trailing-window events for several
// users in one query, keyed by user ID. Users without events are absent.
func (r *ActivityRepository) GetRecentActivityForUsers(ctx context.Context, userIDs []string, windowDays int) (map[string][]model.ActivityEvent, error) {
	out := make(map[string][]model.ActivityEvent, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT user, type, occurred_at FROM activity
		WHERE user INSIDE $user_ids AND occurred_at >= $since
		ORDER BY occurred_at ASC
	`
	vars := map[string]interface{}{
		"user_ids": recordIDs(userIDs),
		"since":    windowStart(windowDays),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	for _, rec := range statementRecords(results) {
		userID := convertSurrealID(rec["user"])
		out[userID] = append(out[userID], parseActivityEvent(rec))
	}
	return out, nil
}

func windowStart(windowDays int) time.Time {
	if windowDays <= 0 {
		windowDays = model.ActivityWindowDays
	}
	return time.Now().UTC().AddDate(0, 0, -windowDays)
}

func parseActivityEvent(rec map[string]interface{}) model.ActivityEvent {
	return model.ActivityEvent{
		Type:       getString(rec, "type"),
		OccurredAt: parseTime(rec["occurred_at"]),
	}
}
