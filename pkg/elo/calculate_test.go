package elo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/elo/pkg/elo"
	. "github.com/smartystreets/goconvey/convey"
)

func ratings(results []elo.Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Rating
	}
	return out
}

func TestCalculateDuel(t *testing.T) {
	Convey("Given two players", t, func() {
		Convey("When a 1199 player beats a 1200 player", func() {
			res, err := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1199}, elo.Player{ID: "b", Rating: 1200})

			Convey("Then the winner gains 8 and the loser drops 8", func() {
				So(err, ShouldBeNil)
				So(res[0], ShouldResemble, elo.Result{ID: "a", OldRating: 1199, Rating: 1207, Delta: 8})
				So(res[1], ShouldResemble, elo.Result{ID: "b", OldRating: 1200, Rating: 1192, Delta: -8})
			})
		})

		Convey("When equally rated players meet", func() {
			res, err := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1200}, elo.Player{ID: "b", Rating: 1200})

			Convey("Then the half point rounds away from zero on both sides", func() {
				So(err, ShouldBeNil)
				So(res[0].Rating, ShouldEqual, 1208)
				So(res[1].Rating, ShouldEqual, 1192)
				So(res[0].Delta+res[1].Delta, ShouldEqual, 0)
			})
		})

		Convey("When a custom K-factor is used", func() {
			res, err := elo.CalculateDuel(
				elo.Player{ID: "a", Rating: 1000},
				elo.Player{ID: "b", Rating: 1000},
				elo.WithKFactor(40),
			)

			Convey("Then the change scales with K", func() {
				So(err, ShouldBeNil)
				So(res[0].Delta, ShouldEqual, 20)
				So(res[1].Delta, ShouldEqual, -20)
			})
		})

		Convey("When the underdog wins", func() {
			upset, err := elo.CalculateDuel(elo.Player{ID: "low", Rating: 1100}, elo.Player{ID: "mid", Rating: 1200})
			So(err, ShouldBeNil)
			expected, err := elo.CalculateDuel(elo.Player{ID: "high", Rating: 1300}, elo.Player{ID: "mid", Rating: 1200})
			So(err, ShouldBeNil)

			Convey("Then it gains more than a favourite beating the same opponent", func() {
				So(upset[0].Delta, ShouldEqual, 10)
				So(expected[0].Delta, ShouldEqual, 5)
				So(upset[0].Delta, ShouldBeGreaterThan, expected[0].Delta)
			})
		})

		Convey("When both sides share an id", func() {
			_, err := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1000}, elo.Player{ID: " a ", Rating: 1100})

			Convey("Then it fails with ErrDuplicateID", func() {
				So(errors.Is(err, elo.ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When a player has a blank id", func() {
			_, err := elo.CalculateDuel(elo.Player{ID: "  ", Rating: 1000}, elo.Player{ID: "b", Rating: 1100})

			Convey("Then it fails with ErrInvalidID", func() {
				So(errors.Is(err, elo.ErrInvalidID), ShouldBeTrue)
			})
		})

		Convey("When the K-factor is not positive", func() {
			_, errZero := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1000}, elo.Player{ID: "b", Rating: 1000}, elo.WithKFactor(0))
			_, errNeg := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1000}, elo.Player{ID: "b", Rating: 1000}, elo.WithKFactor(-3))
			_, errNaN := elo.CalculateDuel(elo.Player{ID: "a", Rating: 1000}, elo.Player{ID: "b", Rating: 1000}, elo.WithKFactor(math.NaN()))

			Convey("Then it fails with ErrInvalidKFactor", func() {
				So(errors.Is(errZero, elo.ErrInvalidKFactor), ShouldBeTrue)
				So(errors.Is(errNeg, elo.ErrInvalidKFactor), ShouldBeTrue)
				So(errors.Is(errNaN, elo.ErrInvalidKFactor), ShouldBeTrue)
			})
		})
	})
}

func TestCalculateDraw(t *testing.T) {
	Convey("Given a drawn duel", t, func() {
		Convey("When the players are equally rated", func() {
			res, err := elo.CalculateDraw(elo.Player{ID: "a", Rating: 1200}, elo.Player{ID: "b", Rating: 1200})

			Convey("Then nobody moves", func() {
				So(err, ShouldBeNil)
				So(res[0].Delta, ShouldEqual, 0)
				So(res[1].Delta, ShouldEqual, 0)
			})
		})

		Convey("When the favourite only draws", func() {
			res, err := elo.CalculateDraw(elo.Player{ID: "fav", Rating: 1100}, elo.Player{ID: "dog", Rating: 1000})

			Convey("Then the favourite loses points to the underdog", func() {
				So(err, ShouldBeNil)
				So(res[0].Delta, ShouldEqual, -2)
				So(res[1].Delta, ShouldEqual, 2)
			})
		})
	})
}

func TestCalculateFreeForAll(t *testing.T) {
	Convey("Given four players in a free-for-all", t, func() {
		standings := []elo.Standing{
			{Player: elo.Player{ID: "p1000", Rating: 1000}, Score: 4},
			{Player: elo.Player{ID: "p1200", Rating: 1200}, Score: 3},
			{Player: elo.Player{ID: "p1300", Rating: 1300}, Score: 2},
			{Player: elo.Player{ID: "p1500", Rating: 1500}, Score: 1},
		}

		Convey("When the lowest rated player scores highest", func() {
			res, err := elo.CalculateFreeForAll(standings)

			Convey("Then every result is computed against all opponents", func() {
				So(err, ShouldBeNil)
				So(ratings(res), ShouldResemble, []float64{1038, 1211, 1289, 1462})
				So(elo.TotalDelta(res), ShouldEqual, 0)
			})
		})

		Convey("When everybody ties", func() {
			tied := []elo.Standing{
				{Player: elo.Player{ID: "a", Rating: 1200}, Score: 10},
				{Player: elo.Player{ID: "b", Rating: 1200}, Score: 10},
				{Player: elo.Player{ID: "c", Rating: 1200}, Score: 10},
			}
			res, err := elo.CalculateFreeForAll(tied)

			Convey("Then nobody moves", func() {
				So(err, ShouldBeNil)
				So(ratings(res), ShouldResemble, []float64{1200, 1200, 1200})
			})
		})

		Convey("When only one player is given", func() {
			_, err := elo.CalculateFreeForAll(standings[:1])

			Convey("Then it fails with ErrTooFewTeams", func() {
				So(errors.Is(err, elo.ErrTooFewTeams), ShouldBeTrue)
			})
		})

		Convey("When a score is not finite", func() {
			bad := append([]elo.Standing(nil), standings...)
			bad[2].Score = math.Inf(-1)
			_, err := elo.CalculateFreeForAll(bad)

			Convey("Then it fails with ErrInvalidScore", func() {
				So(errors.Is(err, elo.ErrInvalidScore), ShouldBeTrue)
			})
		})

		Convey("When a rating is NaN", func() {
			bad := append([]elo.Standing(nil), standings...)
			bad[1].Rating = math.NaN()
			_, err := elo.CalculateFreeForAll(bad)

			Convey("Then it fails with ErrInvalidRating", func() {
				So(errors.Is(err, elo.ErrInvalidRating), ShouldBeTrue)
			})
		})
	})
}

func TestCalculateTeamMatch(t *testing.T) {
	Convey("Given two teams of equally rated players", t, func() {
		a := elo.Team{Score: 1, Players: []elo.Player{{ID: "a1", Rating: 1200}, {ID: "a2", Rating: 1200}}}
		b := elo.Team{Score: 0, Players: []elo.Player{{ID: "b1", Rating: 1200}, {ID: "b2", Rating: 1200}}}

		Convey("When team A wins under the uniform strategy", func() {
			res, err := elo.CalculateTeamMatch(a, b)

			Convey("Then every member receives the team change", func() {
				So(err, ShouldBeNil)
				So(ratings(res), ShouldResemble, []float64{1208, 1208, 1192, 1192})
				So(elo.TotalDelta(res), ShouldEqual, 0)
			})
		})
	})

	Convey("Given unevenly rated teams", t, func() {
		a := elo.Team{Score: 1, Players: []elo.Player{{ID: "a1", Rating: 700}, {ID: "a2", Rating: 1150}}}
		b := elo.Team{Score: 0, Players: []elo.Player{{ID: "b1", Rating: 1300}, {ID: "b2", Rating: 1000}}}

		Convey("When team A wins under the weighted strategy", func() {
			res, err := elo.CalculateTeamMatch(a, b, elo.WithStrategy(elo.Weighted))

			Convey("Then members share the change by their contribution", func() {
				So(err, ShouldBeNil)
				So(ratings(res), ShouldResemble, []float64{709, 1165, 1286, 990})
				So(elo.TotalDelta(res), ShouldEqual, 0)
			})
		})

		Convey("When team A wins under the uniform strategy", func() {
			res, err := elo.CalculateTeamMatch(a, b, elo.WithStrategy(elo.Uniform))

			Convey("Then both members of a team move by the same amount", func() {
				So(err, ShouldBeNil)
				So(res[0].Delta, ShouldEqual, 12)
				So(res[1].Delta, ShouldEqual, 12)
				So(res[2].Delta, ShouldEqual, -12)
				So(res[3].Delta, ShouldEqual, -12)
			})
		})

		Convey("When a team is empty", func() {
			_, err := elo.CalculateTeamMatch(a, elo.Team{Score: 0})

			Convey("Then it fails with ErrEmptyTeam", func() {
				So(errors.Is(err, elo.ErrEmptyTeam), ShouldBeTrue)
			})
		})

		Convey("When a player appears in both teams", func() {
			dup := elo.Team{Score: 0, Players: []elo.Player{{ID: "a2", Rating: 1300}}}
			_, err := elo.CalculateTeamMatch(a, dup)

			Convey("Then it fails with ErrDuplicateID", func() {
				So(errors.Is(err, elo.ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When the strategy is unknown", func() {
			_, err := elo.CalculateTeamMatch(a, b, elo.WithStrategy(elo.Strategy(7)))

			Convey("Then it fails with ErrUnknownStrategy", func() {
				So(errors.Is(err, elo.ErrUnknownStrategy), ShouldBeTrue)
			})
		})
	})
}

func TestCalculateMultiTeamMatch(t *testing.T) {
	Convey("Given three teams", t, func() {
		teams := []elo.Team{
			{Score: 30, Players: []elo.Player{{ID: "a1", Rating: 1500}, {ID: "a2", Rating: 1400}}},
			{Score: 20, Players: []elo.Player{{ID: "b1", Rating: 1200}, {ID: "b2", Rating: 1300}}},
			{Score: 10, Players: []elo.Player{{ID: "c1", Rating: 1000}, {ID: "c2", Rating: 1100}}},
		}

		Convey("When the strongest team wins", func() {
			res, err := elo.CalculateMultiTeamMatch(teams)

			Convey("Then the winners gain, the losers drop and the middle barely moves", func() {
				So(err, ShouldBeNil)
				So(res, ShouldHaveLength, 6)
				So(res[0].Delta, ShouldBeGreaterThan, 0)
				So(res[4].Delta, ShouldBeLessThan, 0)
				So(math.Abs(float64(res[2].Delta)), ShouldBeLessThan, float64(res[0].Delta))
			})

			Convey("And the total drift stays within the rounding slack", func() {
				So(math.Abs(float64(elo.TotalDelta(res))), ShouldBeLessThanOrEqualTo, 3)
			})
		})

		Convey("When fewer than two teams are given", func() {
			_, err := elo.CalculateMultiTeamMatch(teams[:1])
			_, errNone := elo.CalculateMultiTeamMatch(nil)

			Convey("Then it fails with ErrTooFewTeams", func() {
				So(errors.Is(err, elo.ErrTooFewTeams), ShouldBeTrue)
				So(errors.Is(errNone, elo.ErrTooFewTeams), ShouldBeTrue)
			})
		})
	})
}

func TestParseStrategy(t *testing.T) {
	Convey("Given strategy names", t, func() {
		Convey("Then known names parse case-insensitively", func() {
			s, err := elo.ParseStrategy(" Weighted ")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, elo.Weighted)

			s, err = elo.ParseStrategy("")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, elo.Uniform)
			So(s.String(), ShouldEqual, "uniform")
		})

		Convey("Then unknown names are rejected", func() {
			_, err := elo.ParseStrategy("proportional")
			So(errors.Is(err, elo.ErrUnknownStrategy), ShouldBeTrue)
		})
	})
}
