package repository

import (
	"context"
	"errors"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// CompatibilityRepository persists computed scores. Records are keyed by
// the ordered pair: compatibility_score:[requester, candidate].
type CompatibilityRepository struct {
	db database.Database
}

// NewCompatibilityRepository creates a new compatibility repository
func NewCompatibilityRepository(db database.Database) *CompatibilityRepository {
	return &CompatibilityRepository{db: db}
}

const upsertScoreQuery = `UPSERT type::thing("compatibility_score", [$requester_id, $candidate_id]) SET
	requester = type::record($requester_id),
	candidate = type::record($candidate_id),
	location_score = $location_score,
	interests_score = $interests_score,
	goal_compatibility = $goal_compatibility,
	zodiac_score = $zodiac_score,
	behavior_score = $behavior_score,
	preference_score = $preference_score,
	overall_score = $overall_score,
	last_calculated = $last_calculated`

func scoreVars(s *model.CompatibilityScore) map[string]interface{} {
	return map[string]interface{}{
		"requester_id":       s.RequesterID,
		"candidate_id":       s.CandidateID,
		"location_score":     s.LocationScore,
		"interests_score":    s.InterestsScore,
		"goal_compatibility": s.GoalCompatibility,
		"zodiac_score":       s.ZodiacScore,
		"behavior_score":     s.BehaviorScore,
		"preference_score":   s.PreferenceScore,
		"overall_score":      s.OverallScore,
		"last_calculated":    s.LastCalculated,
	}
}

// UpsertScores overwrites several cached scores in one transaction
func (r *CompatibilityRepository) UpsertScores(ctx context.Context, scores []*model.CompatibilityScore) error {
	batch := database.NewAtomicBatch()
	for _, s := range scores {
		batch.Add(upsertScoreQuery, scoreVars(s))
	}
	return batch.Execute(ctx, r.db)
}

// GetScore returns the cached score for the pair, or nil, nil when absent
func (r *CompatibilityRepository) GetScore(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error) {
	query := `SELECT * FROM type::thing("compatibility_score", [$requester_id, $candidate_id])`
	vars := map[string]interface{}{
		"requester_id": requesterID,
		"candidate_id": candidateID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseScore(data), nil
}

func parseScore(data map[string]interface{}) *model.CompatibilityScore {
	f := func(key string) float64 {
		v, _ := getFloat(data, key)
		return v
	}
	return &model.CompatibilityScore{
		RequesterID:       convertSurrealID(data["requester"]),
		CandidateID:       convertSurrealID(data["candidate"]),
		LocationScore:     f("location_score"),
		InterestsScore:    f("interests_score"),
		GoalCompatibility: f("goal_compatibility"),
		ZodiacScore:       f("zodiac_score"),
		BehaviorScore:     f("behavior_score"),
		PreferenceScore:   f("preference_score"),
		OverallScore:      f("overall_score"),
		LastCalculated:    parseTime(data["last_calculated"]),
	}
}
