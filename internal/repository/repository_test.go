package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ============================================================================
// Fake Database
// ============================================================================

type fakeDB struct {
	queryFunc func(query string, vars map[string]interface{}) ([]interface{}, error)
	queries   []string
	vars      []map[string]interface{}
}

func (f *fakeDB) Connect(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                      { return nil }
func (f *fakeDB) Ping(ctx context.Context) error    { return nil }

func (f *fakeDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	f.queries = append(f.queries, query)
	f.vars = append(f.vars, vars)
	if f.queryFunc != nil {
		return f.queryFunc(query, vars)
	}
	return nil, nil
}

func (f *fakeDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := f.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	records := statementRecords(results)
	if len(records) == 0 {
		return nil, database.ErrNotFound
	}
	return records[0], nil
}

func (f *fakeDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := f.Query(ctx, query, vars)
	return err
}

func okResult(records ...map[string]interface{}) []interface{} {
	rows := make([]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, r)
	}
	return []interface{}{map[string]interface{}{"status": "OK", "result": rows}}
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestConvertSurrealID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user:abc", convertSurrealID("user:abc"))
	assert.Equal(t, "user:abc", convertSurrealID(models.RecordID{Table: "user", ID: "abc"}))
	assert.Equal(t, "user:abc", convertSurrealID(&models.RecordID{Table: "user", ID: "abc"}))
	assert.Equal(t, "user:demo", convertSurrealID(map[string]interface{}{
		"tb": "user",
		"id": map[string]interface{}{"String": "demo"},
	}))
	assert.Equal(t, "", convertSurrealID(nil))
}

func TestRecordIDs(t *testing.T) {
	t.Parallel()

	ids := recordIDs([]string{
		"user:4f1c2a9e-8d3b-4c7a-9e55-0b6f1d2c3a4b",
		"plain",
		"user:",
	})
	require.Len(t, ids, 2)
	assert.Equal(t, &models.RecordID{Table: "user", ID: "4f1c2a9e-8d3b-4c7a-9e55-0b6f1d2c3a4b"}, ids[0])
	assert.Equal(t, &models.RecordID{Table: "user", ID: "plain"}, ids[1])

	// what the driver hands back renders to the same string the caller passed
	assert.Equal(t, "user:4f1c2a9e-8d3b-4c7a-9e55-0b6f1d2c3a4b", convertSurrealID(*ids[0]))
	assert.NotNil(t, recordIDs(nil))
}

func TestStatementRecords_UnwrapsStatus(t *testing.T) {
	t.Parallel()

	records := statementRecords(okResult(
		map[string]interface{}{"a": 1},
		map[string]interface{}{"a": 2},
	))
	assert.Len(t, records, 2)
	assert.Empty(t, statementRecords(nil))
}

func TestGetFloat_AcceptsIntegers(t *testing.T) {
	t.Parallel()

	m := map[string]interface{}{"a": uint64(40), "b": 1.5, "c": "x"}
	v, ok := getFloat(m, "a")
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)
	v, ok = getFloat(m, "b")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	_, ok = getFloat(m, "c")
	assert.False(t, ok)
}

// ============================================================================
// ProfileRepository Tests
// ============================================================================

func TestProfileRepository_GetByUserID_ParsesRecord(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	db := &fakeDB{queryFunc: func(query string, vars map[string]interface{}) ([]interface{}, error) {
		return okResult(map[string]interface{}{
			"id":                models.RecordID{Table: "user_profile", ID: "user:a"},
			"user":              models.RecordID{Table: "user", ID: "a"},
			"relationship_goal": "serious",
			"interests":         []interface{}{"hiking", "jazz"},
			"zodiac_sign":       "leo",
			"age":               uint64(30),
			"location":          map[string]interface{}{"lat": 40.7, "lng": -74.0, "city": "NYC"},
			"preferences": map[string]interface{}{
				"age_range": map[string]interface{}{"min": uint64(25), "max": uint64(35)},
			},
			"visibility":         "public",
			"discovery_eligible": true,
			"last_active":        now,
		}), nil
	}}
	repo := NewProfileRepository(db)

	p, err := repo.GetByUserID(context.Background(), "user:a")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "user:a", p.UserID)
	assert.Equal(t, model.GoalSerious, p.RelationshipGoal)
	assert.Equal(t, []string{"hiking", "jazz"}, p.Interests)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	require.NotNil(t, p.Location)
	assert.True(t, p.Location.HasCoordinates())
	assert.Equal(t, 40.7, p.Location.Lat)
	require.NotNil(t, p.Preferences)
	require.NotNil(t, p.Preferences.AgeRange)
	assert.Equal(t, 25, *p.Preferences.AgeRange.Min)
	assert.Nil(t, p.Preferences.HeightRange)
	require.NotNil(t, p.LastActive)
	assert.True(t, now.Equal(*p.LastActive))
}

func TestProfileRepository_GetByUserID_NotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(), nil
	}}

	p, err := NewProfileRepository(db).GetByUserID(context.Background(), "user:missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfileRepository_ListCandidates_PassesExclusions(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(
			map[string]interface{}{"user": "user:b", "relationship_goal": "casual"},
			map[string]interface{}{"user": "user:c"},
		), nil
	}}

	profiles, err := NewProfileRepository(db).ListCandidates(context.Background(), []string{"user:a", "user:x"}, 50)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "user:b", profiles[0].UserID)
	assert.Equal(t, model.RelationshipGoal(""), profiles[1].RelationshipGoal)

	require.Len(t, db.vars, 1)
	assert.Equal(t, []*models.RecordID{
		{Table: "user", ID: "a"},
		{Table: "user", ID: "x"},
	}, db.vars[0]["exclude"])
	assert.NotContains(t, db.queries[0], "<string>")
	assert.Equal(t, 50, db.vars[0]["limit"])
	assert.Contains(t, db.queries[0], "NOTINSIDE $exclude")
}

func TestProfileRepository_Upsert_OnlySetsProvidedFields(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(map[string]interface{}{"user": "user:a", "bio": "hi"}), nil
	}}

	bio := "hi"
	sign := "LEO"
	_, err := NewProfileRepository(db).Upsert(context.Background(), "user:a", &model.UpdateProfileRequest{
		Bio:        &bio,
		ZodiacSign: &sign,
	})
	require.NoError(t, err)

	q := db.queries[0]
	assert.True(t, strings.HasPrefix(q, "UPSERT"))
	assert.Contains(t, q, "bio = $bio")
	assert.NotContains(t, q, "interests")
	assert.Equal(t, "leo", db.vars[0]["zodiac_sign"])
}

// ============================================================================
// ActivityRepository Tests
// ============================================================================

func TestActivityRepository_GetRecentActivityForUsers_GroupsByUser(t *testing.T) {
	t.Parallel()

	ts := time.Now().UTC()
	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(
			map[string]interface{}{"user": "user:a", "type": "login", "occurred_at": ts},
			map[string]interface{}{"user": "user:b", "type": "message_sent", "occurred_at": ts},
			map[string]interface{}{"user": "user:a", "type": "swipe_like", "occurred_at": ts},
		), nil
	}}

	out, err := NewActivityRepository(db).GetRecentActivityForUsers(context.Background(), []string{"user:a", "user:b", "user:c"}, 30)
	require.NoError(t, err)
	assert.Len(t, db.vars[0]["user_ids"], 3)
	assert.NotContains(t, db.queries[0], "<string>")
	assert.Len(t, out["user:a"], 2)
	assert.Len(t, out["user:b"], 1)
	assert.NotContains(t, out, "user:c")
}

func TestActivityRepository_GetRecentActivityForUsers_EmptyInputSkipsQuery(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	out, err := NewActivityRepository(db).GetRecentActivityForUsers(context.Background(), nil, 30)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, db.queries)
}

// ============================================================================
// SwipeRepository Tests
// ============================================================================

func TestSwipeRepository_Create_WritesSwipeAndActivityAtomically(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	err := NewSwipeRepository(db).Create(context.Background(), &model.Swipe{
		ID:        "s1",
		SwiperID:  "user:a",
		TargetID:  "user:b",
		Action:    model.SwipeLike,
		CreatedOn: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, db.queries, 1)
	q := db.queries[0]
	assert.Contains(t, q, "BEGIN TRANSACTION")
	assert.Contains(t, q, "CREATE activity")
	assert.Contains(t, q, `type::thing("swipe"`)
}

func TestSwipeRepository_Create_DuplicatePassesThrough(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return nil, database.ErrDuplicate
	}}
	err := NewSwipeRepository(db).Create(context.Background(), &model.Swipe{SwiperID: "user:a", TargetID: "user:b", Action: model.SwipeDislike})
	assert.True(t, errors.Is(err, database.ErrDuplicate))
}

func TestSwipeRepository_GetSwipedUserIDs(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(
			map[string]interface{}{"target": models.RecordID{Table: "user", ID: "b"}},
			map[string]interface{}{"target": "user:c"},
		), nil
	}}

	ids, err := NewSwipeRepository(db).GetSwipedUserIDs(context.Background(), "user:a")
	require.NoError(t, err)
	assert.Equal(t, []string{"user:b", "user:c"}, ids)
}

// ============================================================================
// BlockRepository Tests
// ============================================================================

func TestBlockRepository_Create_KeyedByPair(t *testing.T) {
	t.Parallel()

	created := time.Now().UTC().Truncate(time.Second)
	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(map[string]interface{}{
			"id":         models.RecordID{Table: "block", ID: "ab"},
			"created_on": created,
		}), nil
	}}

	block := &model.Block{BlockerUserID: "user:a", BlockedUserID: "user:b"}
	require.NoError(t, NewBlockRepository(db).Create(context.Background(), block))

	assert.Contains(t, db.queries[0], `type::thing("block", [$blocker_user_id, $blocked_user_id])`)
	assert.Equal(t, "user:a", db.vars[0]["blocker_user_id"])
	assert.Equal(t, "user:b", db.vars[0]["blocked_user_id"])
	assert.Equal(t, "block:ab", block.ID)
	assert.True(t, created.Equal(block.CreatedOn))
}

func TestBlockRepository_Create_DuplicatePassesThrough(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return nil, database.ErrDuplicate
	}}
	err := NewBlockRepository(db).Create(context.Background(), &model.Block{BlockerUserID: "user:a", BlockedUserID: "user:b"})
	assert.ErrorIs(t, err, database.ErrDuplicate)
}

func TestBlockRepository_GetBlockedEitherWay_ReturnsOtherParty(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(
			map[string]interface{}{"blocker_user_id": "user:a", "blocked_user_id": "user:b"},
			map[string]interface{}{"blocker_user_id": "user:c", "blocked_user_id": "user:a"},
		), nil
	}}

	ids, err := NewBlockRepository(db).GetBlockedEitherWay(context.Background(), "user:a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user:b", "user:c"}, ids)
}

// ============================================================================
// CompatibilityRepository Tests
// ============================================================================

func TestCompatibilityRepository_UpsertScores_SingleTransaction(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	repo := NewCompatibilityRepository(db)
	scores := []*model.CompatibilityScore{
		{RequesterID: "user:a", CandidateID: "user:b", OverallScore: 0.8},
		{RequesterID: "user:a", CandidateID: "user:c", OverallScore: 0.4},
	}

	require.NoError(t, repo.UpsertScores(context.Background(), scores))
	require.Len(t, db.queries, 1)
	assert.Equal(t, 2, strings.Count(db.queries[0], "UPSERT"))
}

func TestCompatibilityRepository_GetScore_Parses(t *testing.T) {
	t.Parallel()

	calc := time.Now().UTC().Truncate(time.Second)
	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(map[string]interface{}{
			"requester":       "user:a",
			"candidate":       "user:b",
			"overall_score":   0.75,
			"zodiac_score":    0.5,
			"last_calculated": calc,
		}), nil
	}}

	s, err := NewCompatibilityRepository(db).GetScore(context.Background(), "user:a", "user:b")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "user:b", s.CandidateID)
	assert.Equal(t, 0.75, s.OverallScore)
	assert.True(t, calc.Equal(s.LastCalculated))
}

// ============================================================================
// ZodiacRepository Tests
// ============================================================================

func TestZodiacRepository_Compatibility_OrdersPair(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(q string, vars map[string]interface{}) ([]interface{}, error) {
		return okResult(map[string]interface{}{"score": 0.9}), nil
	}}

	score, err := NewZodiacRepository(db).Compatibility(context.Background(), "Leo", "aries")
	require.NoError(t, err)
	assert.Equal(t, 0.9, score)
	assert.Equal(t, "aries", db.vars[0]["a"])
	assert.Equal(t, "leo", db.vars[0]["b"])
}

func TestZodiacRepository_Compatibility_MissingRow(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return okResult(), nil
	}}

	_, err := NewZodiacRepository(db).Compatibility(context.Background(), "leo", "virgo")
	assert.ErrorIs(t, err, ErrUnknownZodiacPair)
}
