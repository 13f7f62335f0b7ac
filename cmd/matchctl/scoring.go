package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/repository"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/service"
)

// ProfileSet is an offline set of scoring profiles keyed by user ID
type ProfileSet map[string]*model.Profile

// loadProfiles reads a JSON array of scoring profiles
func loadProfiles(path string) (ProfileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeProfiles(f)
}

func decodeProfiles(r io.Reader) (ProfileSet, error) {
	var profiles []*model.Profile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}

	set := make(ProfileSet, len(profiles))
	for i, p := range profiles {
		if p == nil || p.UserID == "" {
			return nil, fmt.Errorf("profile %d has no user_id", i)
		}
		if _, dup := set[p.UserID]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.UserID)
		}
		set[p.UserID] = p
	}
	return set, nil
}

// lookup serves activity from the profiles' embedded logs
func (s ProfileSet) lookup(_ context.Context, userID string) ([]model.ActivityEvent, error) {
	if p, ok := s[userID]; ok {
		return p.ActivityLog, nil
	}
	return nil, nil
}

// rank ranks everyone in the set except the requester
func (s ProfileSet) rank(ctx context.Context, scorer *service.CompatibilityScorer, requesterID string, limit int) ([]model.RankedCandidate, error) {
	requester, ok := s[requesterID]
	if !ok {
		return nil, fmt.Errorf("no profile for %q", requesterID)
	}

	candidates := make([]*model.Profile, 0, len(s)-1)
	for id, p := range s {
		if id != requesterID {
			candidates = append(candidates, p)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].UserID < candidates[j].UserID })
	return scorer.RankTop(ctx, requester, candidates, s.lookup, limit)
}

// score scores one pair from the set
func (s ProfileSet) score(ctx context.Context, scorer *service.CompatibilityScorer, requesterID, candidateID string) (*model.CompatibilityScore, error) {
	requester, ok := s[requesterID]
	if !ok {
		return nil, fmt.Errorf("no profile for %q", requesterID)
	}
	candidate, ok := s[candidateID]
	if !ok {
		return nil, fmt.Errorf("no profile for %q", candidateID)
	}
	return scorer.Score(ctx, requester, candidate), nil
}

func newScorer(cfg MatchingConfig, zodiac service.ZodiacTable) *service.CompatibilityScorer {
	return service.NewCompatibilityScorer(service.ScorerConfig{
		Zodiac:               zodiac,
		MaxDistanceKm:        cfg.MaxDistanceKm,
		TopN:                 cfg.TopN,
		Concurrency:          cfg.Concurrency,
		NeutralEmptyBehavior: cfg.NeutralEmptyBehavior,
	})
}

func openDB(ctx context.Context, cfg DatabaseConfig) (*database.SurrealDB, error) {
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		User:      cfg.User,
		Password:  cfg.Password,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func newDiscoveryService(db database.Database, cfg MatchingConfig) *service.DiscoveryService {
	return service.NewDiscoveryService(service.DiscoveryServiceConfig{
		Scorer:             newScorer(cfg, nil),
		ProfileRepo:        repository.NewProfileRepository(db),
		SwipeRepo:          repository.NewSwipeRepository(db),
		BlockRepo:          repository.NewBlockRepository(db),
		ScoreRepo:          repository.NewCompatibilityRepository(db),
		ActivityRepo:       repository.NewActivityRepository(db),
		CandidatePoolSize:  cfg.CandidatePool,
		ActivityWindowDays: cfg.ActivityWindowDays,
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRanking(w io.Writer, scores []*model.CompatibilityScore) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCANDIDATE\tOVERALL\tLOCATION\tINTERESTS\tGOAL\tZODIAC\tBEHAVIOR\tPREFERENCE")
	for i, s := range scores {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			i+1, s.CandidateID, s.OverallScore,
			s.LocationScore, s.InterestsScore, s.GoalCompatibility,
			s.ZodiacScore, s.BehaviorScore, s.PreferenceScore)
	}
	return tw.Flush()
}
