package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type calcFunc func(opts []elo.Option) ([]elo.Result, error)

// Duel rates a one-on-one match. With draw set neither side won.
func (s *Service) Duel(ctx context.Context, winner, loser elo.Player, draw bool, ov Overrides) (Outcome, error) {
	return s.rate(ctx, KindDuel, 2, 2, ov, func(opts []elo.Option) ([]elo.Result, error) {
		var (
			res [2]elo.Result
			err error
		)
		if draw {
			res, err = elo.CalculateDraw(winner, loser, opts...)
		} else {
			res, err = elo.CalculateDuel(winner, loser, opts...)
		}
		if err != nil {
			return nil, err
		}
		return res[:], nil
	})
}

// FreeForAll rates a match where every player competed on their own.
func (s *Service) FreeForAll(ctx context.Context, standings []elo.Standing, ov Overrides) (Outcome, error) {
	n := len(standings)
	return s.rate(ctx, KindFreeForAll, n, n, ov, func(opts []elo.Option) ([]elo.Result, error) {
		return elo.CalculateFreeForAll(standings, opts...)
	})
}

// TeamMatch rates a match between two teams.
func (s *Service) TeamMatch(ctx context.Context, a, b elo.Team, ov Overrides) (Outcome, error) {
	teams := []elo.Team{a, b}
	return s.rate(ctx, KindTeamMatch, len(teams), participantCount(teams), ov, func(opts []elo.Option) ([]elo.Result, error) {
		return elo.CalculateTeamMatch(a, b, opts...)
	})
}

// MultiTeamMatch rates a match between any number of teams.
func (s *Service) MultiTeamMatch(ctx context.Context, teams []elo.Team, ov Overrides) (Outcome, error) {
	return s.rate(ctx, KindMultiTeamMatch, len(teams), participantCount(teams), ov, func(opts []elo.Option) ([]elo.Result, error) {
		return elo.CalculateMultiTeamMatch(teams, opts...)
	})
}

// Calculate dispatches req by its kind.
func (s *Service) Calculate(ctx context.Context, req Request) (Outcome, error) {
	switch req.Kind {
	case KindDuel:
		return s.Duel(ctx, req.Winner, req.Loser, req.Draw, req.Overrides)
	case KindFreeForAll:
		return s.FreeForAll(ctx, req.Standings, req.Overrides)
	case KindTeamMatch:
		if len(req.Teams) != 2 {
			return Outcome{}, fmt.Errorf("%w: team match needs exactly 2 teams, got %d", ErrInvalidRequest, len(req.Teams))
		}
		return s.TeamMatch(ctx, req.Teams[0], req.Teams[1], req.Overrides)
	case KindMultiTeamMatch:
		return s.MultiTeamMatch(ctx, req.Teams, req.Overrides)
	default:
		return Outcome{}, fmt.Errorf("%w: unknown match kind %q", ErrInvalidRequest, req.Kind)
	}
}

// ExpectedScore returns the probability that a beats b.
func (s *Service) ExpectedScore(ctx context.Context, a, b OpponentSpec) (float64, error) {
	_, span := s.tracer.Start(ctx, "elo.expected_score")
	defer span.End()

	oa, err := a.Opponent()
	if err != nil {
		return 0, s.spanError(span, err)
	}
	ob, err := b.Opponent()
	if err != nil {
		return 0, s.spanError(span, err)
	}
	score, err := elo.CalculateExpectedScore(oa, ob)
	if err != nil {
		return 0, s.spanError(span, err)
	}
	span.SetAttributes(attribute.Float64("elo.expected_score", score))
	return score, nil
}

// options turns the defaults plus per-request overrides into engine options.
func (s *Service) options(ov Overrides) ([]elo.Option, error) {
	k := s.kFactor
	if ov.KFactor != nil {
		k = *ov.KFactor
	}
	strategy := s.strategy
	if ov.Strategy != "" {
		parsed, err := elo.ParseStrategy(ov.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}
	return []elo.Option{elo.WithKFactor(k), elo.WithStrategy(strategy)}, nil
}

// rate runs fn under a span, with logging and metrics, and assigns a match id.
func (s *Service) rate(ctx context.Context, kind Kind, teams, participants int, ov Overrides, fn calcFunc) (Outcome, error) {
	out := Outcome{MatchID: uuid.NewString()}
	ctx, span := s.tracer.Start(ctx, "elo."+string(kind), trace.WithAttributes(
		attribute.String("elo.match_id", out.MatchID),
		attribute.String("elo.kind", string(kind)),
		attribute.Int("elo.teams", teams),
		attribute.Int("elo.participants", participants),
	))
	defer span.End()
	log := s.log().With(logger.String("match_id", out.MatchID), logger.String("kind", string(kind)))

	fail := func(err error) (Outcome, error) {
		s.failures.Add(1)
		s.metrics.RecordCalculationFailure(string(kind), Reason(err))
		if IsValidation(err) {
			log.Warn(ctx, "match rejected", logger.Error(err))
		} else {
			log.Error(ctx, "match calculation failed", logger.Error(err))
		}
		return out, s.spanError(span, err)
	}

	if participants > s.maxParticipants {
		return fail(fmt.Errorf("%w: %d exceeds limit %d", ErrTooManyParticipants, participants, s.maxParticipants))
	}
	opts, err := s.options(ov)
	if err != nil {
		return fail(err)
	}

	start := time.Now()
	results, err := fn(opts)
	elapsed := time.Since(start)
	if err != nil {
		return fail(err)
	}

	s.calculations.Add(1)
	s.metrics.RecordCalculation(string(kind), float64(elapsed.Microseconds())/1000, participants)
	for _, r := range results {
		s.metrics.ObserveRatingDelta(r.Delta)
	}
	drift := elo.TotalDelta(results)
	s.metrics.ObserveZeroSumDrift(drift)
	span.SetAttributes(attribute.Int("elo.zero_sum_drift", drift))

	log.Debug(ctx, "match rated",
		logger.Int("participants", participants),
		logger.Int("zero_sum_drift", drift),
		logger.Duration("took", elapsed),
	)

	out.Results = results
	return out, nil
}

func (s *Service) spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
