package loadgen

import (
	"math"

	"github.com/brianvoe/gofakeit/v7"
	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/elo"
)

// Ranges for generated matches.
const (
	minRating      = 600
	maxRating      = 2400
	maxFreeForAll  = 8
	maxTeams       = 4
	maxTeamSize    = 5
	minKFactor     = 10
	maxKFactor     = 40
	maxScore       = 5
	invalidPercent = 5
)

var kinds = []string{ //nolint:gochecknoglobals // generator alphabet
	string(service.KindDuel),
	string(service.KindFreeForAll),
	string(service.KindTeamMatch),
	string(service.KindMultiTeamMatch),
}

var strategies = []string{"uniform", "weighted"} //nolint:gochecknoglobals // generator alphabet

// Generator produces reproducible random matches.
type Generator struct {
	f *gofakeit.Faker
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

// Match returns one random match. Every match carries an explicit K-factor
// and strategy so the answer does not depend on server defaults. A small
// share of matches are deliberately invalid.
func (g *Generator) Match() service.Request {
	k := float64(g.f.IntRange(minKFactor, maxKFactor))
	req := service.Request{
		Kind: service.Kind(g.f.RandomString(kinds)),
		Overrides: service.Overrides{
			KFactor:  &k,
			Strategy: g.f.RandomString(strategies),
		},
	}

	switch req.Kind {
	case service.KindDuel:
		req.Winner = g.player()
		req.Loser = g.player()
		req.Draw = g.f.IntRange(0, 9) == 0
	case service.KindFreeForAll:
		n := g.f.IntRange(2, maxFreeForAll)
		req.Standings = make([]elo.Standing, n)
		for i := range req.Standings {
			req.Standings[i] = elo.Standing{Player: g.player(), Score: g.score()}
		}
	case service.KindTeamMatch:
		req.Teams = g.teams(2)
	case service.KindMultiTeamMatch:
		req.Teams = g.teams(g.f.IntRange(2, maxTeams))
	}

	if g.f.IntRange(1, 100) <= invalidPercent {
		corrupt(&req)
	}
	return req
}

// Matches returns n random matches.
func (g *Generator) Matches(n int) []service.Request {
	out := make([]service.Request, n)
	for i := range out {
		out[i] = g.Match()
	}
	return out
}

func (g *Generator) player() elo.Player {
	return elo.Player{ID: g.f.UUID(), Rating: math.Round(g.f.Float64Range(minRating, maxRating))}
}

func (g *Generator) score() float64 {
	return float64(g.f.IntRange(0, maxScore))
}

func (g *Generator) teams(n int) []elo.Team {
	teams := make([]elo.Team, n)
	for i := range teams {
		size := g.f.IntRange(1, maxTeamSize)
		teams[i] = elo.Team{Score: g.score(), Players: make([]elo.Player, size)}
		for j := range teams[i].Players {
			teams[i].Players[j] = g.player()
		}
	}
	return teams
}

// corrupt makes req invalid by reusing an identifier.
func corrupt(req *service.Request) {
	switch {
	case req.Kind == service.KindDuel:
		req.Loser.ID = req.Winner.ID
	case len(req.Standings) > 1:
		req.Standings[1].ID = req.Standings[0].ID
	case len(req.Teams) > 1:
		req.Teams[1].Players[0].ID = req.Teams[0].Players[0].ID
	}
}
