package elo

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const minTeams = 2

// Match is a validated, immutable set of teams together with the K-factor
// and strategy used to rate them. Build one with NewMatchBuilder or
// NewMatch.
type Match struct {
	teams    []Team
	settings settings
}

// NewMatch validates teams and opts and returns a Match holding copies of them.
func NewMatch(teams []Team, opts ...Option) (Match, error) {
	s, err := newSettings(opts)
	if err != nil {
		return Match{}, err
	}
	if len(teams) < minTeams {
		return Match{}, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewTeams, len(teams), minTeams)
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	copied := make([]Team, len(teams))
	for i, t := range teams {
		if len(t.Players) == 0 {
			return Match{}, fmt.Errorf("%w: team %d", ErrEmptyTeam, i)
		}
		if !isFinite(t.Score) {
			return Match{}, fmt.Errorf("%w: team %d scored %v", ErrInvalidScore, i, t.Score)
		}
		players := make([]Player, len(t.Players))
		for j, p := range t.Players {
			p.ID = strings.TrimSpace(p.ID)
			if err := p.validate(); err != nil {
				return Match{}, fmt.Errorf("team %d player %d: %w", i, j, err)
			}
			if !seen.Add(p.ID) {
				return Match{}, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
			}
			players[j] = p
		}
		copied[i] = Team{Players: players, Score: t.Score}
	}
	return Match{teams: copied, settings: s}, nil
}

// Teams returns a copy of the match's teams.
func (m Match) Teams() []Team {
	teams := make([]Team, len(m.teams))
	for i, t := range m.teams {
		teams[i] = Team{Players: append([]Player(nil), t.Players...), Score: t.Score}
	}
	return teams
}

// KFactor returns the K-factor the match is rated with.
func (m Match) KFactor() float64 { return m.settings.kFactor }

// Strategy returns the distribution strategy of the match.
func (m Match) Strategy() Strategy { return m.settings.strategy }

// Participants returns the number of players across all teams.
func (m Match) Participants() int {
	var n int
	for _, t := range m.teams {
		n += len(t.Players)
	}
	return n
}

// Calculate rates the match. It is a pure function of the match value.
func (m Match) Calculate() ([]Result, error) {
	if len(m.teams) < minTeams {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewTeams, len(m.teams), minTeams)
	}
	teamChange := teamDeltas(m.teams, m.settings.kFactor)
	deltas := make(map[string]int, m.Participants())
	for i, t := range m.teams {
		shares := distribute(t, teamChange[i], m.settings.strategy)
		for j, p := range t.Players {
			deltas[p.ID] = shares[j]
		}
	}
	return assemble(m.teams, deltas)
}

// MatchBuilder accumulates teams before producing an immutable Match.
// A builder must not be shared between goroutines.
type MatchBuilder struct {
	opts  []Option
	teams []Team
}

// NewMatchBuilder starts a match configured by opts.
func NewMatchBuilder(opts ...Option) *MatchBuilder {
	return &MatchBuilder{opts: opts}
}

// AddTeam appends a team of players that reported score.
func (b *MatchBuilder) AddTeam(score float64, players ...Player) *MatchBuilder {
	b.teams = append(b.teams, Team{Players: append([]Player(nil), players...), Score: score})
	return b
}

// AddPlayer appends a single-player team.
func (b *MatchBuilder) AddPlayer(p Player, score float64) *MatchBuilder {
	return b.AddTeam(score, p)
}

// Build validates the accumulated teams and returns the Match.
func (b *MatchBuilder) Build() (Match, error) {
	return NewMatch(b.teams, b.opts...)
}
