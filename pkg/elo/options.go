package elo

import (
	"fmt"
	"strings"
)

// DefaultKFactor is the K-factor used when none is configured.
const DefaultKFactor = 15

// Strategy selects how a team's rating change is shared by its members.
type Strategy int

const (
	// Uniform gives every member the full team change.
	Uniform Strategy = iota
	// Weighted scales each member's change by their share of the team's total rating.
	Weighted
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Weighted:
		return "weighted"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps "uniform" or "weighted" (case-insensitive) to a Strategy.
// An empty string yields Uniform.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform":
		return Uniform, nil
	case "weighted":
		return Weighted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

type settings struct {
	kFactor  float64
	strategy Strategy
}

// Option configures a calculation.
type Option func(*settings)

// WithKFactor sets the K-factor. It must be positive; invalid values are
// reported when the match is built.
func WithKFactor(k float64) Option {
	return func(s *settings) {
		s.kFactor = k
	}
}

// WithStrategy sets the distribution strategy for team matches.
func WithStrategy(strategy Strategy) Option {
	return func(s *settings) {
		s.strategy = strategy
	}
}

func newSettings(opts []Option) (settings, error) {
	s := settings{
		kFactor:  DefaultKFactor,
		strategy: Uniform,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if !isFinite(s.kFactor) || s.kFactor <= 0 {
		return settings{}, fmt.Errorf("%w: %v", ErrInvalidKFactor, s.kFactor)
	}
	if s.strategy != Uniform && s.strategy != Weighted {
		return settings{}, fmt.Errorf("%w: %v", ErrUnknownStrategy, s.strategy)
	}
	return s, nil
}
