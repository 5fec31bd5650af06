package service

import (
	"errors"

	"github.com/okian/elo/pkg/elo"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrBatchTooLarge       = errors.New("batch too large")
	ErrTooManyParticipants = errors.New("too many participants")
)

// validationErrors are caused by the caller's input.
var validationErrors = []error{ //nolint:gochecknoglobals // lookup table
	ErrInvalidRequest,
	ErrBatchTooLarge,
	ErrTooManyParticipants,
	elo.ErrInvalidID,
	elo.ErrDuplicateID,
	elo.ErrInvalidRating,
	elo.ErrInvalidScore,
	elo.ErrTooFewTeams,
	elo.ErrEmptyTeam,
	elo.ErrInvalidKFactor,
	elo.ErrUnknownStrategy,
}

// IsValidation reports whether err was caused by invalid input rather than
// an internal failure.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reason returns a short metric label describing err.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	case errors.Is(err, ErrTooManyParticipants):
		return "too_many_participants"
	case errors.Is(err, elo.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, elo.ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, elo.ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, elo.ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, elo.ErrTooFewTeams):
		return "too_few_teams"
	case errors.Is(err, elo.ErrEmptyTeam):
		return "empty_team"
	case errors.Is(err, elo.ErrInvalidKFactor):
		return "invalid_k_factor"
	case errors.Is(err, elo.ErrUnknownStrategy):
		return "unknown_strategy"
	case errors.Is(err, elo.ErrMissingParticipant), errors.Is(err, elo.ErrUnknownOpponent):
		return "invariant"
	default:
		return "internal"
	}
}
