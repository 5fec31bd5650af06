// Package elo computes Elo rating updates for duels, free-for-all contests,
// two-team matches and multi-team tournaments.
//
// Every match is modeled as a list of teams; a duel or a free-for-all is a
// match of single-member teams. Teams are compared round-robin: each team's
// change is the sum of K * (actual - expected) against every other team,
// where the expected score uses the teams' average ratings and the actual
// score is 1, 0.5 or 0 depending on which team reported the higher score.
// The summed change is rounded away from zero at .5 without ever flipping
// its sign, then handed to the match's distribution strategy.
//
// Usage:
//
//	results, err := elo.CalculateDuel(
//		elo.Player{ID: "alice", Rating: 1199},
//		elo.Player{ID: "bob", Rating: 1200},
//	)
//
//	match, err := elo.NewMatchBuilder(elo.WithStrategy(elo.Weighted)).
//		AddTeam(1, elo.Player{ID: "a1", Rating: 700}, elo.Player{ID: "a2", Rating: 1150}).
//		AddTeam(0, elo.Player{ID: "b1", Rating: 1300}, elo.Player{ID: "b2", Rating: 1000}).
//		Build()
//	results, err := match.Calculate()
//
// Higher scores always win. All functions are pure and safe for concurrent
// use; a MatchBuilder is not.
package elo
