package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so that
// handler/error_mapper.go can map them with errors.Is.

// ===== Ranking Errors =====
var (
	ErrMissingRelationshipGoal = errors.New("requester profile has no relationship goal")
	ErrEmptyCandidatePool      = errors.New("candidate pool is empty")
)

// ===== Profile Errors =====
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

// ===== Swipe Errors =====
var (
	ErrCannotSwipeSelf    = errors.New("cannot swipe on yourself")
	ErrAlreadySwiped      = errors.New("already swiped on this user")
	ErrInvalidSwipeAction = errors.New("invalid swipe action")
	ErrCannotScoreSelf    = errors.New("cannot score compatibility with yourself")
)

// ===== Block Errors =====
var (
	ErrCannotBlockSelf = errors.New("cannot block yourself")
	ErrAlreadyBlocked  = errors.New("already blocked this user")
)
