package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// SwipeRepository handles swipe data access. A unique index on
// (swiper, target) keeps one swipe per ordered pair.
type SwipeRepository struct {
	db database.Database
}

// NewSwipeRepository creates a new swipe repository
func NewSwipeRepository(db database.Database) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Create stores the swipe and appends the matching activity event in one transaction
func (r *SwipeRepository) Create(ctx context.Context, swipe *model.Swipe) error {
	batch := database.NewAtomicBatch()
	batch.Add(`CREATE type::thing("swipe", $id) SET
			swiper = type::record($swiper_id),
			target = type::record($target_id),
			action = $action,
			created_on = $created_on`,
		map[string]interface{}{
			"id":         swipe.ID,
			"swiper_id":  swipe.SwiperID,
			"target_id":  swipe.TargetID,
			"action":     string(swipe.Action),
			"created_on": swipe.CreatedOn,
		})
	batch.Add(RecordStatement(swipe.SwiperID, swipe.Action.ActivityType()))

	if err := batch.Execute(ctx, r.db); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return err
		}
		return fmt.Errorf("failed to create swipe: %w", err)
	}
	return nil
}

// GetSwipedUserIDs returns every user the swiper has already reacted to
func (r *SwipeRepository) GetSwipedUserIDs(ctx context.Context, swiperID string) ([]string, error) {
	query := `SELECT target FROM swipe WHERE swiper = type::record($swiper_id)`
	vars := map[string]interface{}{"swiper_id": swiperID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := statementRecords(results)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id := convertSurrealID(rec["target"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// HasLiked reports whether swiperID liked or super-liked targetID
func (r *SwipeRepository) HasLiked(ctx context.Context, swiperID, targetID string) (bool, error) {
	query := `
		SELECT count() AS count FROM swipe
		WHERE swiper = type::record($swiper_id)
			AND target = type::record($target_id)
			AND action INSIDE ["like", "super_like"]
		GROUP ALL
	`
	vars := map[string]interface{}{
		"swiper_id": swiperID,
		"target_id": targetID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	data, err := asRecord(result)
	if err != nil {
		return false, nil
	}
	count := getIntPtr(data, "count")
	return count != nil && *count > 0, nil
}
