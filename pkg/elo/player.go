package elo

import (
	"fmt"
	"math"
	"strings"
)

// Player is a single rated participant.
type Player struct {
	ID     string  `json:"id"`
	Rating float64 `json:"rating"`
}

// NewPlayer trims id and returns a validated Player.
func NewPlayer(id string, rating float64) (Player, error) {
	p := Player{ID: strings.TrimSpace(id), Rating: rating}
	if err := p.validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

func (p Player) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidID
	}
	if !isFinite(p.Rating) {
		return fmt.Errorf("%w: %q has rating %v", ErrInvalidRating, p.ID, p.Rating)
	}
	return nil
}

// Team is an ordered, non-empty group of players sharing one score.
type Team struct {
	Players []Player `json:"players"`
	Score   float64  `json:"score"`
}

// NewTeam validates players and returns a Team carrying score.
func NewTeam(score float64, players ...Player) (Team, error) {
	if len(players) == 0 {
		return Team{}, ErrEmptyTeam
	}
	if !isFinite(score) {
		return Team{}, fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	t := Team{Players: make([]Player, len(players)), Score: score}
	for i, p := range players {
		member, err := NewPlayer(p.ID, p.Rating)
		if err != nil {
			return Team{}, err
		}
		t.Players[i] = member
	}
	return t, nil
}

// TotalRating returns the sum of member ratings.
func (t Team) TotalRating() float64 {
	var total float64
	for _, p := range t.Players {
		total += p.Rating
	}
	return total
}

// AverageRating returns the arithmetic mean of member ratings.
func (t Team) AverageRating() (float64, error) {
	if len(t.Players) == 0 {
		return 0, ErrEmptyTeam
	}
	return t.TotalRating() / float64(len(t.Players)), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
