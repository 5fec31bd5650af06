package elo

import "errors"

// Sentinel validation errors. Returned errors wrap one of these with the
// offending identifier or value, so callers should match with errors.Is.
var (
	ErrInvalidID       = errors.New("invalid participant id")
	ErrDuplicateID     = errors.New("duplicate participant id")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidScore    = errors.New("invalid score")
	ErrTooFewTeams     = errors.New("too few teams")
	ErrEmptyTeam       = errors.New("team has no players")
	ErrInvalidKFactor  = errors.New("k-factor must be positive and finite")
	ErrUnknownStrategy = errors.New("unknown distribution strategy")
)

// Invariant violations. Valid input never produces these.
var (
	ErrMissingParticipant = errors.New("participant missing from results")
	ErrUnknownOpponent    = errors.New("unknown opponent type")
)
