package elo

import "math"

// actualScore compares two team scores: 1 if a beat b, 0.5 on a tie, 0 otherwise.
func actualScore(a, b float64) float64 {
	switch {
	case a > b:
		return 1
	case a < b:
		return 0
	default:
		return 0.5
	}
}

func pairwiseDelta(kFactor, actual, expected float64) float64 {
	return kFactor * (actual - expected)
}

// roundDelta rounds half away from zero on the magnitude so that a non-zero
// change never flips sign.
func roundDelta(raw float64) int {
	if raw == 0 {
		return 0
	}
	return int(math.Copysign(math.Round(math.Abs(raw)), raw))
}

// teamDeltas returns the rounded rating change of every team. Each unordered
// pair is evaluated once and applied to both sides with opposite signs, so
// the raw changes of any two-team match cancel exactly.
func teamDeltas(teams []Team, kFactor float64) []int {
	averages := make([]float64, len(teams))
	for i, t := range teams {
		averages[i], _ = t.AverageRating()
	}

	raw := make([]float64, len(teams))
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			expected := ExpectedScore(averages[i], averages[j])
			d := pairwiseDelta(kFactor, actualScore(teams[i].Score, teams[j].Score), expected)
			raw[i] += d
			raw[j] -= d
		}
	}

	deltas := make([]int, len(teams))
	for i, r := range raw {
		deltas[i] = roundDelta(r)
	}
	return deltas
}
