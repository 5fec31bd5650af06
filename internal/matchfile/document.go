// Package matchfile reads match descriptions from TOML, YAML or JSON files
// and rates them.
//
// A document names its kind and the participants for that kind:
//
//	kind = "team_match"
//	k_factor = 32
//	strategy = "weighted"
//
//	[[teams]]
//	score = 1
//	players = [{ id = "ann", rating = 1500 }, { id = "bob", rating = 1400 }]
//
//	[[teams]]
//	score = 0
//	players = [{ id = "cat", rating = 1450 }, { id = "dan", rating = 1480 }]
package matchfile

import (
	"fmt"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/elo"
)

// Kind names a match format. It is the rating service's kind, so documents
// use the same names as the HTTP batch API.
type Kind = service.Kind

// Supported kinds.
const (
	KindDuel           = service.KindDuel
	KindFreeForAll     = service.KindFreeForAll
	KindTeamMatch      = service.KindTeamMatch
	KindMultiTeamMatch = service.KindMultiTeamMatch
)

// Player is a participant entry.
type Player struct {
	ID     string  `toml:"id" yaml:"id" json:"id"`
	Rating float64 `toml:"rating" yaml:"rating" json:"rating"`
}

// Standing is a free-for-all entry.
type Standing struct {
	ID     string  `toml:"id" yaml:"id" json:"id"`
	Rating float64 `toml:"rating" yaml:"rating" json:"rating"`
	Score  float64 `toml:"score" yaml:"score" json:"score"`
}

// Team is a team entry.
type Team struct {
	Score   float64  `toml:"score" yaml:"score" json:"score"`
	Players []Player `toml:"players" yaml:"players" json:"players"`
}

// Document is one match description. A nil KFactor keeps the engine default.
type Document struct {
	Kind      Kind       `toml:"kind" yaml:"kind" json:"kind"`
	KFactor   *float64   `toml:"k_factor" yaml:"k_factor" json:"k_factor"`
	Strategy  string     `toml:"strategy" yaml:"strategy" json:"strategy"`
	Winner    *Player    `toml:"winner" yaml:"winner" json:"winner"`
	Loser     *Player    `toml:"loser" yaml:"loser" json:"loser"`
	Draw      bool       `toml:"draw" yaml:"draw" json:"draw"`
	Standings []Standing `toml:"standings" yaml:"standings" json:"standings"`
	Teams     []Team     `toml:"teams" yaml:"teams" json:"teams"`
}

// ResolvedKind returns the declared kind, or infers one from the populated
// fields when the document leaves it out.
func (d Document) ResolvedKind() Kind {
	if d.Kind != "" {
		return d.Kind
	}
	switch {
	case d.Winner != nil || d.Loser != nil:
		return KindDuel
	case len(d.Standings) > 0:
		return KindFreeForAll
	case len(d.Teams) == 2:
		return KindTeamMatch
	default:
		return KindMultiTeamMatch
	}
}

// Options returns the engine options the document asks for.
func (d Document) Options() ([]elo.Option, error) {
	var opts []elo.Option
	if d.KFactor != nil {
		opts = append(opts, elo.WithKFactor(*d.KFactor))
	}
	if d.Strategy != "" {
		s, err := elo.ParseStrategy(d.Strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, elo.WithStrategy(s))
	}
	return opts, nil
}

// Calculate rates the document. Options in overrides are applied after the
// document's own, so they win.
func (d Document) Calculate(overrides ...elo.Option) ([]elo.Result, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, overrides...)

	switch kind := d.ResolvedKind(); kind {
	case KindDuel:
		return d.duel(opts)
	case KindFreeForAll:
		standings := make([]elo.Standing, len(d.Standings))
		for i, s := range d.Standings {
			standings[i] = elo.Standing{Player: elo.Player{ID: s.ID, Rating: s.Rating}, Score: s.Score}
		}
		return elo.CalculateFreeForAll(standings, opts...)
	case KindTeamMatch:
		if len(d.Teams) != 2 {
			return nil, fmt.Errorf("%w: team_match needs exactly 2 teams, got %d", elo.ErrTooFewTeams, len(d.Teams))
		}
		teams := d.teams()
		return elo.CalculateTeamMatch(teams[0], teams[1], opts...)
	case KindMultiTeamMatch:
		return elo.CalculateMultiTeamMatch(d.teams(), opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (d Document) duel(opts []elo.Option) ([]elo.Result, error) {
	if d.Winner == nil || d.Loser == nil {
		return nil, fmt.Errorf("%w: duel needs a winner and a loser", elo.ErrTooFewTeams)
	}
	a := elo.Player{ID: d.Winner.ID, Rating: d.Winner.Rating}
	b := elo.Player{ID: d.Loser.ID, Rating: d.Loser.Rating}

	var (
		res [2]elo.Result
		err error
	)
	if d.Draw {
		res, err = elo.CalculateDraw(a, b, opts...)
	} else {
		res, err = elo.CalculateDuel(a, b, opts...)
	}
	if err != nil {
		return nil, err
	}
	return res[:], nil
}

func (d Document) teams() []elo.Team {
	teams := make([]elo.Team, len(d.Teams))
	for i, t := range d.Teams {
		players := make([]elo.Player, len(t.Players))
		for j, p := range t.Players {
			players[j] = elo.Player{ID: p.ID, Rating: p.Rating}
		}
		teams[i] = elo.Team{Score: t.Score, Players: players}
	}
	return teams
}
