package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ErrUnknownZodiacPair is returned when the table has no row for a pair
var ErrUnknownZodiacPair = errors.New("no zodiac compatibility for pair")

// ZodiacRepository reads the zodiac_compatibility table. Rows are keyed by
// the alphabetically ordered pair so a lookup is symmetric.
type ZodiacRepository struct {
	db database.Database
}

// NewZodiacRepository creates a new zodiac repository
func NewZodiacRepository(db database.Database) *ZodiacRepository {
	return &ZodiacRepository{db: db}
}

// Compatibility returns the table score for two signs
func (r *ZodiacRepository) Compatibility(ctx context.Context, sign1, sign2 string) (float64, error) {
	a, b := orderedPair(model.NormalizeZodiacSign(sign1), model.NormalizeZodiacSign(sign2))

	query := `SELECT score FROM type::thing("zodiac_compatibility", [$a, $b])`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"a": a, "b": b})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s/%s", ErrUnknownZodiacPair, a, b)
		}
		return 0, err
	}

	data, err := asRecord(result)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownZodiacPair, a, b)
	}
	score, ok := getFloat(data, "score")
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownZodiacPair, a, b)
	}
	return score, nil
}

// Seed writes every pair of the given table, replacing existing rows
func (r *ZodiacRepository) Seed(ctx context.Context, scores map[[2]string]float64) error {
	batch := database.NewAtomicBatch()
	for pair, score := range scores {
		a, b := orderedPair(pair[0], pair[1])
		batch.Add(`UPSERT type::thing("zodiac_compatibility", [$a, $b]) SET score = $score`,
			map[string]interface{}{"a": a, "b": b, "score": score})
	}
	return batch.Execute(ctx, r.db)
}

func orderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
