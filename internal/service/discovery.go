package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ProfileRepository defines the profile store operations discovery needs
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
	Upsert(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error)
	ListCandidates(ctx context.Context, exclude []string, limit int) ([]*model.UserProfile, error)
	UpdateLastActive(ctx context.Context, userID string) error
}

// SwipeRepository defines swipe persistence
type SwipeRepository interface {
	Create(ctx context.Context, swipe *model.Swipe) error
	GetSwipedUserIDs(ctx context.Context, swiperID string) ([]string, error)
	HasLiked(ctx context.Context, swiperID, targetID string) (bool, error)
}

// BlockRepository stores blocks and lists every user blocked by or
// blocking a user
type BlockRepository interface {
	Create(ctx context.Context, block *model.Block) error
	GetBlockedEitherWay(ctx context.Context, userID string) ([]string, error)
}

// ScoreRepository persists computed compatibility scores
type ScoreRepository interface {
	UpsertScores(ctx context.Context, scores []*model.CompatibilityScore) error
	GetScore(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error)
}

// ScoreCache is the short-lived score cache in front of ScoreRepository.
// GetScore returns nil, nil on a miss.
type ScoreCache interface {
	SetScores(ctx context.Context, scores []*model.CompatibilityScore) error
	GetScore(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error)
	DeletePair(ctx context.Context, userID, otherID string) error
}

// ActivityRepository defines activity log access
type ActivityRepository interface {
	ActivityBatchFetcher
	Record(ctx context.Context, userID, activityType string) error
}

// DefaultCandidatePoolSize caps how many candidates are scored per request
const DefaultCandidatePoolSize = 200

// DiscoveryService builds candidate pools and ranks them for a requester
type DiscoveryService struct {
	scorer       *CompatibilityScorer
	profileRepo  ProfileRepository
	swipeRepo    SwipeRepository
	blockRepo    BlockRepository
	scoreRepo    ScoreRepository
	activityRepo ActivityRepository
	scoreCache   ScoreCache
	geoService   *GeoService
	poolSize     int
	windowDays   int
	loaderWait   time.Duration
}

// DiscoveryServiceConfig holds configuration for the discovery service
type DiscoveryServiceConfig struct {
	Scorer       *CompatibilityScorer
	ProfileRepo  ProfileRepository
	SwipeRepo    SwipeRepository
	BlockRepo    BlockRepository
	ScoreRepo    ScoreRepository
	ActivityRepo ActivityRepository
	ScoreCache   ScoreCache // optional

	CandidatePoolSize  int
	ActivityWindowDays int
	LoaderWait         time.Duration
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(cfg DiscoveryServiceConfig) *DiscoveryService {
	s := &DiscoveryService{
		scorer:       cfg.Scorer,
		profileRepo:  cfg.ProfileRepo,
		swipeRepo:    cfg.SwipeRepo,
		blockRepo:    cfg.BlockRepo,
		scoreRepo:    cfg.ScoreRepo,
		activityRepo: cfg.ActivityRepo,
		scoreCache:   cfg.ScoreCache,
		geoService:   NewGeoService(),
		poolSize:     cfg.CandidatePoolSize,
		windowDays:   cfg.ActivityWindowDays,
		loaderWait:   cfg.LoaderWait,
	}
	if s.scorer == nil {
		s.scorer = NewCompatibilityScorer(ScorerConfig{Geo: s.geoService})
	}
	if s.poolSize <= 0 {
		s.poolSize = DefaultCandidatePoolSize
	}
	if s.windowDays <= 0 {
		s.windowDays = model.ActivityWindowDays
	}
	return s
}

// DiscoverCandidates ranks the requester's candidate pool. Self, anyone the
// requester already swiped on, and blocks in either direction are excluded.
// limit <= 0 uses the scorer's TopN.
func (s *DiscoveryService) DiscoverCandidates(ctx context.Context, requesterID string, limit int) (*model.DiscoveryResponse, error) {
	resp, err := s.Rank(ctx, requesterID, limit)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, requesterID)
	return resp, nil
}

// Rank is DiscoverCandidates without marking the requester active. Scores
// are still persisted.
func (s *DiscoveryService) Rank(ctx context.Context, requesterID string, limit int) (*model.DiscoveryResponse, error) {
	requester, err := s.profileRepo.GetByUserID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("loading requester profile: %w", err)
	}
	if requester == nil {
		return nil, ErrProfileNotFound
	}
	if !requester.IsComplete() {
		return nil, ErrMissingRelationshipGoal
	}

	exclude, err := s.exclusionSet(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	pool, err := s.profileRepo.ListCandidates(ctx, exclude, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	if len(pool) == 0 {
		return &model.DiscoveryResponse{Candidates: []model.DiscoveredCandidate{}}, nil
	}

	byUser := make(map[string]*model.UserProfile, len(pool))
	candidates := make([]*model.Profile, 0, len(pool))
	for _, p := range pool {
		byUser[p.UserID] = p
		candidates = append(candidates, p.ToScoringProfile())
	}

	loader := NewActivityLoader(s.activityRepo, s.windowDays, s.loaderWait)
	ranked, err := s.scorer.RankTop(ctx, requester.ToScoringProfile(), candidates, loader.Load, limit)
	if err != nil {
		return nil, err
	}

	scores := make([]*model.CompatibilityScore, len(ranked))
	for i, r := range ranked {
		scores[i] = r.Score
	}
	s.persistScores(ctx, scores)

	requesterPoint := requester.ToScoringProfile().Location
	resp := &model.DiscoveryResponse{
		Candidates: make([]model.DiscoveredCandidate, 0, len(ranked)),
		Total:      len(ranked),
		PoolSize:   len(pool),
	}
	for _, r := range ranked {
		stored := byUser[r.Profile.UserID]
		pub := stored.ToPublic()
		if d := s.geoService.Distance(requesterPoint, r.Profile.Location); d >= 0 {
			pub.Distance = s.geoService.GetDistanceBucket(d)
		}
		resp.Candidates = append(resp.Candidates, model.DiscoveredCandidate{Profile: pub, Score: r.Score})
	}
	return resp, nil
}

// GetCompatibility returns the score for one pair, reading the cache and the
// score table before computing it on demand
func (s *DiscoveryService) GetCompatibility(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error) {
	if requesterID == candidateID {
		return nil, ErrCannotScoreSelf
	}

	blocked, err := s.isBlocked(ctx, requesterID, candidateID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrCandidateNotFound
	}

	if s.scoreCache != nil {
		cached, err := s.scoreCache.GetScore(ctx, requesterID, candidateID)
		if err != nil {
			slog.Warn("score cache read failed", "requester_id", requesterID, "candidate_id", candidateID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	if s.scoreRepo != nil {
		stored, err := s.scoreRepo.GetScore(ctx, requesterID, candidateID)
		if err != nil {
			slog.Warn("score lookup failed", "requester_id", requesterID, "candidate_id", candidateID, "error", err)
		} else if stored != nil {
			s.cacheScores(ctx, []*model.CompatibilityScore{stored})
			return stored, nil
		}
	}

	requester, err := s.profileRepo.GetByUserID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("loading requester profile: %w", err)
	}
	if requester == nil {
		return nil, ErrProfileNotFound
	}
	if !requester.IsComplete() {
		return nil, ErrMissingRelationshipGoal
	}

	candidate, err := s.profileRepo.GetByUserID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading candidate profile: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	loader := NewActivityLoader(s.activityRepo, s.windowDays, s.loaderWait)
	ranked, err := s.scorer.RankTop(ctx, requester.ToScoringProfile(), []*model.Profile{candidate.ToScoringProfile()}, loader.Load, 1)
	if err != nil {
		return nil, err
	}

	score := ranked[0].Score
	s.persistScores(ctx, []*model.CompatibilityScore{score})
	return score, nil
}

// Swipe records the swiper's reaction to a target and reports a mutual like
func (s *DiscoveryService) Swipe(ctx context.Context, swiperID string, req *model.CreateSwipeRequest) (*model.SwipeResult, error) {
	if !req.Action.IsValid() {
		return nil, ErrInvalidSwipeAction
	}
	if req.TargetID == swiperID {
		return nil, ErrCannotSwipeSelf
	}

	target, err := s.profileRepo.GetByUserID(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("loading target profile: %w", err)
	}
	if target == nil {
		return nil, ErrCandidateNotFound
	}

	blocked, err := s.isBlocked(ctx, swiperID, req.TargetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrCandidateNotFound
	}

	swipe := &model.Swipe{
		ID:        uuid.New().String(),
		SwiperID:  swiperID,
		TargetID:  req.TargetID,
		Action:    req.Action,
		CreatedOn: time.Now().UTC(),
	}
	if err := s.swipeRepo.Create(ctx, swipe); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadySwiped
		}
		return nil, fmt.Errorf("recording swipe: %w", err)
	}

	s.touch(ctx, swiperID)

	result := &model.SwipeResult{Swipe: swipe}
	if req.Action == model.SwipeLike || req.Action == model.SwipeSuperLike {
		liked, err := s.swipeRepo.HasLiked(ctx, req.TargetID, swiperID)
		if err != nil {
			slog.Warn("mutual like check failed", "swiper_id", swiperID, "target_id", req.TargetID, "error", err)
		}
		result.Matched = liked
	}
	return result, nil
}

// Block hides blocker and target from each other. Cached scores for the pair
// are dropped; stored scores stay but are no longer served.
func (s *DiscoveryService) Block(ctx context.Context, blockerID string, req *model.CreateBlockRequest) (*model.Block, error) {
	if req.TargetID == blockerID {
		return nil, ErrCannotBlockSelf
	}
	if s.blockRepo == nil {
		return nil, errors.New("block storage is not configured")
	}

	target, err := s.profileRepo.GetByUserID(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("loading target profile: %w", err)
	}
	if target == nil {
		return nil, ErrCandidateNotFound
	}

	block := &model.Block{BlockerUserID: blockerID, BlockedUserID: req.TargetID}
	if err := s.blockRepo.Create(ctx, block); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyBlocked
		}
		return nil, fmt.Errorf("recording block: %w", err)
	}

	if s.scoreCache != nil {
		if err := s.scoreCache.DeletePair(ctx, blockerID, req.TargetID); err != nil {
			slog.Warn("failed to drop cached scores for blocked pair", "blocker_id", blockerID, "blocked_id", req.TargetID, "error", err)
		}
	}
	return block, nil
}

// RecordActivity appends an entry to the user's activity log
func (s *DiscoveryService) RecordActivity(ctx context.Context, userID, activityType string) error {
	if err := s.activityRepo.Record(ctx, userID, activityType); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	s.touch(ctx, userID)
	return nil
}

// WarmScores recomputes and persists a user's top candidates without
// marking the user active. Used by the cache warmer job.
func (s *DiscoveryService) WarmScores(ctx context.Context, userID string) (int, error) {
	resp, err := s.Rank(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return resp.Total, nil
}

func (s *DiscoveryService) exclusionSet(ctx context.Context, requesterID string) ([]string, error) {
	seen := map[string]struct{}{requesterID: {}}
	exclude := []string{requesterID}
	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				exclude = append(exclude, id)
			}
		}
	}

	swiped, err := s.swipeRepo.GetSwipedUserIDs(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("loading swiped users: %w", err)
	}
	add(swiped)

	if s.blockRepo != nil {
		blocked, err := s.blockRepo.GetBlockedEitherWay(ctx, requesterID)
		if err != nil {
			return nil, fmt.Errorf("loading blocked users: %w", err)
		}
		add(blocked)
	}
	return exclude, nil
}

func (s *DiscoveryService) isBlocked(ctx context.Context, userID, otherID string) (bool, error) {
	if s.blockRepo == nil {
		return false, nil
	}
	blocked, err := s.blockRepo.GetBlockedEitherWay(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("loading blocked users: %w", err)
	}
	for _, id := range blocked {
		if id == otherID {
			return true, nil
		}
	}
	return false, nil
}

// persistScores writes to the score table and cache. Failures are logged and
// never fail the request.
func (s *DiscoveryService) persistScores(ctx context.Context, scores []*model.CompatibilityScore) {
	if len(scores) == 0 {
		return
	}
	if s.scoreRepo != nil {
		if err := s.scoreRepo.UpsertScores(ctx, scores); err != nil {
			slog.Warn("failed to persist compatibility scores", "count", len(scores), "error", err)
		}
	}
	s.cacheScores(ctx, scores)
}

func (s *DiscoveryService) cacheScores(ctx context.Context, scores []*model.CompatibilityScore) {
	if s.scoreCache == nil {
		return
	}
	if err := s.scoreCache.SetScores(ctx, scores); err != nil {
		slog.Warn("failed to cache compatibility scores", "count", len(scores), "error", err)
	}
}

func (s *DiscoveryService) touch(ctx context.Context, userID string) {
	if err := s.profileRepo.UpdateLastActive(ctx, userID); err != nil {
		slog.Debug("failed to update last active", "user_id", userID, "error", err)
	}
}
