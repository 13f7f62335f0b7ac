package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// Scorer defaults
const (
	DefaultTopN            = 20
	DefaultConcurrency     = 8
	DefaultActivityTimeout = 2 * time.Second

	// NoPreferenceScore is the preference sub-score when the requester has
	// declared no ranges
	NoPreferenceScore = 0.7

	ageToleranceYears = 5
	heightToleranceCm = 10
)

// ActivityLookup fetches a user's recent activity log
type ActivityLookup func(ctx context.Context, userID string) ([]model.ActivityEvent, error)

// CompatibilityScorer ranks candidates for a requester
type CompatibilityScorer struct {
	geo                  *GeoService
	zodiac               ZodiacTable
	maxDistanceKm        float64
	topN                 int
	concurrency          int
	activityTimeout      time.Duration
	neutralEmptyBehavior bool
	now                  func() time.Time
}

// ScorerConfig holds configuration for the compatibility scorer
type ScorerConfig struct {
	Geo             *GeoService
	Zodiac          ZodiacTable
	MaxDistanceKm   float64
	TopN            int
	Concurrency     int
	ActivityTimeout time.Duration
	// NeutralEmptyBehavior scores behavior 0.5 instead of 0 when either
	// activity log is empty
	NeutralEmptyBehavior bool
	Now                  func() time.Time
}

// NewCompatibilityScorer creates a new scorer, filling unset fields with defaults
func NewCompatibilityScorer(cfg ScorerConfig) *CompatibilityScorer {
	s := &CompatibilityScorer{
		geo:                  cfg.Geo,
		zodiac:               cfg.Zodiac,
		maxDistanceKm:        cfg.MaxDistanceKm,
		topN:                 cfg.TopN,
		concurrency:          cfg.Concurrency,
		activityTimeout:      cfg.ActivityTimeout,
		neutralEmptyBehavior: cfg.NeutralEmptyBehavior,
		now:                  cfg.Now,
	}
	if s.geo == nil {
		s.geo = NewGeoService()
	}
	if s.zodiac == nil {
		s.zodiac = NewStaticZodiacTable()
	}
	if s.maxDistanceKm <= 0 {
		s.maxDistanceKm = DefaultMaxDistanceKm
	}
	if s.topN <= 0 {
		s.topN = DefaultTopN
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.activityTimeout <= 0 {
		s.activityTimeout = DefaultActivityTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// TopN returns the configured result size
func (s *CompatibilityScorer) TopN() int {
	return s.topN
}

// RankCandidates scores every candidate against the requester and returns
// the best TopN in descending order of overall score. Equal scores keep
// their input order.
//
// When lookup is non-nil, activity logs are fetched through it with a
// per-user timeout; a failed or slow fetch is treated as an empty log.
// When lookup is nil, the logs already on the profiles are used.
func (s *CompatibilityScorer) RankCandidates(ctx context.Context, requester *model.Profile, candidates []*model.Profile, lookup ActivityLookup) ([]model.RankedCandidate, error) {
	return s.RankTop(ctx, requester, candidates, lookup, s.topN)
}

// RankTop is RankCandidates with an explicit result size. n <= 0 uses TopN.
// Nil candidates are skipped.
func (s *CompatibilityScorer) RankTop(ctx context.Context, requester *model.Profile, candidates []*model.Profile, lookup ActivityLookup, n int) ([]model.RankedCandidate, error) {
	if requester == nil || requester.RelationshipGoal == "" {
		return nil, ErrMissingRelationshipGoal
	}
	candidates = nonNil(candidates)
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidatePool
	}
	if n <= 0 {
		n = s.topN
	}

	req := *requester
	if lookup != nil {
		req.ActivityLog = s.fetchActivity(ctx, lookup, req.UserID)
	}

	results := make([]model.RankedCandidate, len(candidates))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			c := *candidate
			if lookup != nil {
				c.ActivityLog = s.fetchActivity(ctx, lookup, c.UserID)
			}
			results[i] = model.RankedCandidate{
				Profile: &c,
				Score:   s.Score(ctx, &req, &c),
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.OverallScore > results[j].Score.OverallScore
	})

	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Score computes the full breakdown for one pair from the profiles as given
func (s *CompatibilityScorer) Score(ctx context.Context, requester, candidate *model.Profile) *model.CompatibilityScore {
	score := &model.CompatibilityScore{
		RequesterID:       requester.UserID,
		CandidateID:       candidate.UserID,
		LocationScore:     s.geo.LocationScore(requester.Location, candidate.Location, s.maxDistanceKm),
		InterestsScore:    InterestsScore(requester.Interests, candidate.Interests),
		GoalCompatibility: GoalCompatibility(requester.RelationshipGoal, candidate.RelationshipGoal),
		ZodiacScore:       s.zodiacScore(ctx, requester.ZodiacSign, candidate.ZodiacSign),
		BehaviorScore:     BehaviorScore(requester.ActivityLog, candidate.ActivityLog, s.neutralEmptyBehavior),
		PreferenceScore:   PreferenceScore(requester.Preferences, candidate),
		LastCalculated:    s.now().UTC(),
	}
	score.OverallScore = clamp01(score.WeightedOverall())
	return score
}

func (s *CompatibilityScorer) fetchActivity(ctx context.Context, lookup ActivityLookup, userID string) []model.ActivityEvent {
	ctx, cancel := context.WithTimeout(ctx, s.activityTimeout)
	defer cancel()

	type fetched struct {
		events []model.ActivityEvent
		err    error
	}
	ch := make(chan fetched, 1)
	go func() {
		events, err := lookup(ctx, userID)
		ch <- fetched{events: events, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			slog.Debug("activity fetch failed, scoring with empty log", "user_id", userID, "error", r.err)
			return nil
		}
		return r.events
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("activity fetch timed out, scoring with empty log", "user_id", userID)
		}
		return nil
	}
}

func (s *CompatibilityScorer) zodiacScore(ctx context.Context, sign1, sign2 string) float64 {
	a, b := model.NormalizeZodiacSign(sign1), model.NormalizeZodiacSign(sign2)
	if a == "" || b == "" {
		return 0.5
	}
	score, err := s.zodiac.Compatibility(ctx, a, b)
	if err != nil {
		slog.Debug("zodiac lookup failed", "sign1", a, "sign2", b, "error", err)
		return 0.5
	}
	return clamp01(score)
}

// InterestsScore is the shared fraction of the larger interest set.
// Matching is exact and case-sensitive; duplicates count once.
func InterestsScore(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(setA), len(setB)))
}

var goalMatrix = map[[2]model.RelationshipGoal]float64{
	{model.GoalSerious, model.GoalCasual}:  0.3,
	{model.GoalSerious, model.GoalFriends}: 0.5,
	{model.GoalSerious, model.GoalUnsure}:  0.6,
	{model.GoalCasual, model.GoalFriends}:  0.7,
	{model.GoalCasual, model.GoalUnsure}:   0.8,
	{model.GoalFriends, model.GoalUnsure}:  0.8,
}

// GoalCompatibility returns the symmetric goal matrix value.
// A missing or unrecognised goal on either side scores 0.5.
func GoalCompatibility(a, b model.RelationshipGoal) float64 {
	if !a.IsValid() || !b.IsValid() {
		return 0.5
	}
	if a == b {
		return 1.0
	}
	if v, ok := goalMatrix[[2]model.RelationshipGoal{a, b}]; ok {
		return v
	}
	if v, ok := goalMatrix[[2]model.RelationshipGoal{b, a}]; ok {
		return v
	}
	return 0.5
}

// BehaviorScore is the number of distinct activity types both users share
// over the larger distinct count. With neutralEmpty, an empty log on either
// side scores 0.5 instead of 0.
func BehaviorScore(a, b []model.ActivityEvent, neutralEmpty bool) float64 {
	typesA := eventTypes(a)
	typesB := eventTypes(b)
	if neutralEmpty && (len(typesA) == 0 || len(typesB) == 0) {
		return 0.5
	}
	shared := 0
	for k := range typesA {
		if _, ok := typesB[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(typesA), len(typesB), 1))
}

// PreferenceScore measures how well the candidate fits the requester's
// declared ranges. No declared range scores NoPreferenceScore. Otherwise it
// is the mean over declared ranges of: 1 inside, a linear decay to 0 over the
// tolerance outside, and 0.5 when the candidate has not set the attribute.
func PreferenceScore(prefs *model.MatchPreferences, candidate *model.Profile) float64 {
	if prefs.IsEmpty() {
		return NoPreferenceScore
	}
	var total float64
	var count int
	if !prefs.AgeRange.IsEmpty() {
		total += rangeFit(prefs.AgeRange, candidate.Age, ageToleranceYears)
		count++
	}
	if !prefs.HeightRange.IsEmpty() {
		total += rangeFit(prefs.HeightRange, candidate.HeightCm, heightToleranceCm)
		count++
	}
	return total / float64(count)
}

func rangeFit(r *model.Range, v *int, tolerance int) float64 {
	if v == nil {
		return 0.5
	}
	if r.Contains(*v) {
		return 1.0
	}
	return math.Max(0, 1-float64(r.Distance(*v))/float64(tolerance))
}

func nonNil(candidates []*model.Profile) []*model.Profile {
	out := make([]*model.Profile, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func eventTypes(events []model.ActivityEvent) map[string]struct{} {
	types := make(map[string]struct{}, len(events))
	for _, e := range events {
		types[e.Type] = struct{}{}
	}
	return types
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
