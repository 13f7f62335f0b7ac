package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// ActivityRecorder appends to a user's activity log
type ActivityRecorder interface {
	Record(ctx context.Context, userID, activityType string) error
}

// ProfileService handles a user's own dating profile
type ProfileService struct {
	profileRepo ProfileRepository
	activity    ActivityRecorder
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	ProfileRepo ProfileRepository
	Activity    ActivityRecorder // optional
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profileRepo: cfg.ProfileRepo,
		activity:    cfg.Activity,
	}
}

// GetProfile returns the user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile creates or updates the user's profile. The request must
// already be validated.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error) {
	if req.ZodiacSign != nil {
		sign := model.NormalizeZodiacSign(*req.ZodiacSign)
		req.ZodiacSign = &sign
	}

	profile, err := s.profileRepo.Upsert(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	if s.activity != nil {
		if err := s.activity.Record(ctx, userID, model.ActivityProfileUpdate); err != nil {
			slog.Warn("failed to record profile update activity", "user_id", userID, "error", err)
		}
	}
	return profile, nil
}
