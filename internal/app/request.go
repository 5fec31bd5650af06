package service

import (
	"fmt"

	"github.com/okian/elo/pkg/elo"
)

// Kind names a match format.
type Kind string

// Supported match kinds.
const (
	KindDuel           Kind = "duel"
	KindFreeForAll     Kind = "free_for_all"
	KindTeamMatch      Kind = "team_match"
	KindMultiTeamMatch Kind = "multi_team_match"
)

// Overrides replaces the service's rating defaults for one match.
// A nil KFactor or empty Strategy keeps the default; a present KFactor is
// validated like any other.
type Overrides struct {
	KFactor  *float64 `json:"k_factor,omitempty"`
	Strategy string   `json:"strategy,omitempty"`
}

// Request describes one match of any kind. Only the fields the kind uses are read.
type Request struct {
	Kind      Kind           `json:"kind"`
	Winner    elo.Player     `json:"winner"`
	Loser     elo.Player     `json:"loser"`
	Draw      bool           `json:"draw,omitempty"`
	Standings []elo.Standing `json:"standings,omitempty"`
	Teams     []elo.Team     `json:"teams,omitempty"`
	Overrides
}

// Outcome is a rated match.
type Outcome struct {
	MatchID string       `json:"match_id"`
	Results []elo.Result `json:"results"`
}

// BatchItem is the outcome of one match in a batch. Err is set when that
// match alone could not be rated.
type BatchItem struct {
	Outcome
	Err error `json:"-"`
}

// OpponentSpec names exactly one of a bare rating, a player or a team.
type OpponentSpec struct {
	Rating *float64    `json:"rating,omitempty"`
	Player *elo.Player `json:"player,omitempty"`
	Team   *elo.Team   `json:"team,omitempty"`
}

// Opponent converts o into the matching elo.Opponent.
func (o OpponentSpec) Opponent() (elo.Opponent, error) {
	set := 0
	var out elo.Opponent
	if o.Rating != nil {
		set++
		out = elo.Rating(*o.Rating)
	}
	if o.Player != nil {
		set++
		out = *o.Player
	}
	if o.Team != nil {
		set++
		out = *o.Team
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: opponent needs exactly one of rating, player or team, got %d", ErrInvalidRequest, set)
	}
	return out, nil
}

func participantCount(teams []elo.Team) int {
	n := 0
	for _, t := range teams {
		n += len(t.Players)
	}
	return n
}
