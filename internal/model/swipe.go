package model

import "time"

// SwipeAction is the requester's reaction to a candidate
type SwipeAction string

const (
	SwipeLike      SwipeAction = "like"
	SwipeDislike   SwipeAction = "dislike"
	SwipeSuperLike SwipeAction = "super_like"
)

// IsValid reports whether a is a known action
func (a SwipeAction) IsValid() bool {
	switch a {
	case SwipeLike, SwipeDislike, SwipeSuperLike:
		return true
	}
	return false
}

// ActivityType returns the activity log entry recorded for this swipe
func (a SwipeAction) ActivityType() string {
	return "swipe_" + string(a)
}

// Swipe records that SwiperID reacted to TargetID. Any swipe removes the
// target from the swiper's future candidate pools.
type Swipe struct {
	ID        string      `json:"id"`
	SwiperID  string      `json:"swiper_id"`
	TargetID  string      `json:"target_id"`
	Action    SwipeAction `json:"action"`
	CreatedOn time.Time   `json:"created_on"`
}

// CreateSwipeRequest is the body of POST /v1/discover/swipes
type CreateSwipeRequest struct {
	TargetID string      `json:"target_id"`
	Action   SwipeAction `json:"action"`
}

// Validate checks the request and returns field errors
func (r *CreateSwipeRequest) Validate() []FieldError {
	var errors []FieldError
	if r.TargetID == "" {
		errors = append(errors, FieldError{Field: "target_id", Message: "target_id is required"})
	}
	if !r.Action.IsValid() {
		errors = append(errors, FieldError{Field: "action", Message: "must be like, dislike, or super_like"})
	}
	return errors
}

// SwipeResult is returned after a swipe; Matched is set when the target had
// already liked the swiper.
type SwipeResult struct {
	Swipe   *Swipe `json:"swipe"`
	Matched bool   `json:"matched"`
}

// Block records that BlockerUserID blocked BlockedUserID. Blocks exclude in
// both directions.
type Block struct {
	ID            string    `json:"id"`
	BlockerUserID string    `json:"blocker_user_id"`
	BlockedUserID string    `json:"blocked_user_id"`
	CreatedOn     time.Time `json:"created_on"`
}

// CreateBlockRequest is the body of POST /v1/blocks
type CreateBlockRequest struct {
	TargetID string `json:"target_id"`
}

// Validate checks the request and returns field errors
func (r *CreateBlockRequest) Validate() []FieldError {
	if r.TargetID == "" {
		return []FieldError{{Field: "target_id", Message: "target_id is required"}}
	}
	return nil
}
