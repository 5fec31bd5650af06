package elo

import (
	"fmt"
	"math"
)

// ratingSpread is the rating gap at which the stronger side is expected to
// win ten times as often as it loses.
const ratingSpread = 400

// ExpectedScore returns the probability that a side rated a outperforms a
// side rated b.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/ratingSpread))
}

// Opponent is anything that can be reduced to a single effective rating:
// a Rating, a Player or a Team (which contributes its average rating).
type Opponent interface {
	opponent()
}

// Rating is a bare rating used as an Opponent.
type Rating float64

func (Rating) opponent() {}
func (Player) opponent() {}
func (Team) opponent()   {}

// CalculateExpectedScore resolves both sides to effective ratings and
// returns the expected score of a against b.
func CalculateExpectedScore(a, b Opponent) (float64, error) {
	ra, err := effectiveRating(a)
	if err != nil {
		return 0, err
	}
	rb, err := effectiveRating(b)
	if err != nil {
		return 0, err
	}
	return ExpectedScore(ra, rb), nil
}

func effectiveRating(o Opponent) (float64, error) {
	var r float64
	switch v := o.(type) {
	case Rating:
		r = float64(v)
	case Player:
		r = v.Rating
	case Team:
		avg, err := v.AverageRating()
		if err != nil {
			return 0, err
		}
		r = avg
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownOpponent, o)
	}
	if !isFinite(r) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRating, r)
	}
	return r, nil
}
