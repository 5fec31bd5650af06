package elo

// weightNudge breaks exact 0.5 splits: the larger contributor absorbs the
// rounding slack so both members of an equal pair never round the same way.
const weightNudge = 0.0001

// Weights returns each member's share of the team rating, nudged by
// weightNudge towards the majority contributor. A team whose total rating is
// zero splits evenly.
func (t Team) Weights() []float64 {
	weights := make([]float64, len(t.Players))
	total := t.TotalRating()
	for i, p := range t.Players {
		if total == 0 {
			weights[i] = 1 / float64(len(t.Players))
			continue
		}
		w := p.Rating / total
		if w > 0.5 {
			w += weightNudge
		} else {
			w -= weightNudge
		}
		weights[i] = w
	}
	return weights
}

// distribute shares a team's rounded change among its members.
func distribute(t Team, delta int, strategy Strategy) []int {
	shares := make([]int, len(t.Players))
	if strategy != Weighted || len(t.Players) == 1 {
		for i := range shares {
			shares[i] = delta
		}
		return shares
	}
	n := float64(len(t.Players))
	for i, w := range t.Weights() {
		shares[i] = roundDelta(float64(delta) * n * w)
	}
	return shares
}
