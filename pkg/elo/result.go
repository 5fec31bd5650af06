package elo

import (
	"fmt"
	"sort"
)

// Result is a participant's rating after a match.
type Result struct {
	ID        string  `json:"id"`
	OldRating float64 `json:"old_rating"`
	Rating    float64 `json:"rating"`
	Delta     int     `json:"delta"`
}

// assemble applies per-participant deltas to the starting ratings, one
// Result per participant in team order.
func assemble(teams []Team, deltas map[string]int) ([]Result, error) {
	results := make([]Result, 0, len(deltas))
	for _, t := range teams {
		for _, p := range t.Players {
			d, ok := deltas[p.ID]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingParticipant, p.ID)
			}
			results = append(results, Result{
				ID:        p.ID,
				OldRating: p.Rating,
				Rating:    p.Rating + float64(d),
				Delta:     d,
			})
		}
	}
	return results, nil
}

// SortResults orders results by participant id.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
}

// TotalDelta sums the rating changes of all results.
func TotalDelta(results []Result) int {
	var sum int
	for _, r := range results {
		sum += r.Delta
	}
	return sum
}
