package elo

import "fmt"

// Duel scores. Only their ordering matters.
const (
	winScore  = 1
	loseScore = 0
)

// Standing is a free-for-all participant with the score they finished on.
// Higher scores beat lower ones; equal scores draw.
type Standing struct {
	Player
	Score float64 `json:"score"`
}

// CalculateDuel rates a one-on-one match that winner won.
func CalculateDuel(winner, loser Player, opts ...Option) ([2]Result, error) {
	return duel(winner, winScore, loser, loseScore, opts)
}

// CalculateDraw rates a one-on-one match that ended level.
func CalculateDraw(a, b Player, opts ...Option) ([2]Result, error) {
	return duel(a, winScore, b, winScore, opts)
}

func duel(a Player, scoreA float64, b Player, scoreB float64, opts []Option) ([2]Result, error) {
	m, err := NewMatchBuilder(opts...).AddPlayer(a, scoreA).AddPlayer(b, scoreB).Build()
	if err != nil {
		return [2]Result{}, err
	}
	results, err := m.Calculate()
	if err != nil {
		return [2]Result{}, err
	}
	if len(results) != 2 {
		return [2]Result{}, fmt.Errorf("%w: duel produced %d results", ErrMissingParticipant, len(results))
	}
	return [2]Result{results[0], results[1]}, nil
}

// CalculateFreeForAll rates a contest between two or more individuals.
func CalculateFreeForAll(standings []Standing, opts ...Option) ([]Result, error) {
	b := NewMatchBuilder(opts...)
	for _, s := range standings {
		b.AddPlayer(s.Player, s.Score)
	}
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return m.Calculate()
}

// CalculateTeamMatch rates a match between two teams.
func CalculateTeamMatch(a, b Team, opts ...Option) ([]Result, error) {
	return CalculateMultiTeamMatch([]Team{a, b}, opts...)
}

// CalculateMultiTeamMatch rates a match between two or more teams.
func CalculateMultiTeamMatch(teams []Team, opts ...Option) ([]Result, error) {
	m, err := NewMatch(teams, opts...)
	if err != nil {
		return nil, err
	}
	return m.Calculate()
}
