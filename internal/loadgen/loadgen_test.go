package loadgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/elo/internal/adapters/http/api"
	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/trace/noop"
)

func init() {
	_ = logger.Init()
}

func newTestServer() (*httptest.Server, func()) {
	registry := prometheus.NewRegistry()
	m := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
	svc := service.New(
		service.WithLogger(logger.NewNop()),
		service.WithTracer(noop.NewTracerProvider().Tracer("test")),
		service.WithMetrics(m),
		service.WithWorkerCount(2),
		service.WithMaxBatchSize(50),
	)
	So(svc.Start(context.Background()), ShouldBeNil)

	h, err := api.NewServer(svc, svc,
		api.WithLogger(logger.NewNop()),
		api.WithGatherer(registry),
		api.WithMetrics(m),
	).Routes()
	So(err, ShouldBeNil)

	ts := httptest.NewServer(h)
	return ts, func() {
		ts.Close()
		svc.Stop()
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a, b := NewGenerator(7), NewGenerator(7)

		Convey("They produce the same matches", func() {
			So(a.Matches(20), ShouldResemble, b.Matches(20))
		})
	})

	Convey("Given a generator", t, func() {
		matches := NewGenerator(42).Matches(200)

		Convey("Every match has a known kind and explicit overrides", func() {
			for _, m := range matches {
				So(endpoints, ShouldContainKey, m.Kind)
				So(m.KFactor, ShouldNotBeNil)
				So(*m.KFactor, ShouldBeBetweenOrEqual, float64(minKFactor), float64(maxKFactor))
				So(strategies, ShouldContain, m.Strategy)
			}
		})

		Convey("Team matches always carry two teams", func() {
			for _, m := range matches {
				if m.Kind == service.KindTeamMatch {
					So(m.Teams, ShouldHaveLength, 2)
				}
			}
		})
	})
}

func TestChunks(t *testing.T) {
	Convey("Given five matches", t, func() {
		matches := NewGenerator(1).Matches(5)

		Convey("A size of two yields three chunks", func() {
			c := chunks(matches, 2)
			So(c, ShouldHaveLength, 3)
			So(c[2], ShouldHaveLength, 1)
		})

		Convey("A non-positive size sends matches one by one", func() {
			So(chunks(matches, 0), ShouldHaveLength, 5)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running rating server", t, func() {
		ts, stop := newTestServer()
		Reset(stop)

		cfg := &Config{
			BaseURL: ts.URL,
			Matches: 120,
			Workers: 4,
			Timeout: 5 * time.Second,
			Seed:    20240611,
		}

		Convey("When matches are posted one by one", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every answer agrees with the local calculation", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 120)
				So(stats.Submitted, ShouldEqual, 120)
				So(stats.Mismatched, ShouldEqual, 0)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Successful+stats.Rejected, ShouldEqual, 120)
			})
		})

		Convey("When matches are posted in batches", func() {
			cfg.BatchSize = 25
			stats, err := Run(context.Background(), cfg)

			Convey("Then every answer agrees with the local calculation", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 120)
				So(stats.Mismatched, ShouldEqual, 0)
				So(stats.Failed, ShouldEqual, 0)
			})
		})

		Convey("When an output file is configured", func() {
			cfg.Matches = 3
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "matches.json")
			_, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)

			Convey("Then the generated matches are written to it", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				var saved []service.Request
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given a server that is not healthy", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		Reset(ts.Close)

		_, err := Run(context.Background(), &Config{BaseURL: ts.URL, Matches: 1, Timeout: time.Second})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "health check")
	})
}

func TestVerifier(t *testing.T) {
	Convey("Given a verifier and a duel", t, func() {
		v := newVerifier()
		k := 32.0
		req := service.Request{
			Kind:      service.KindDuel,
			Winner:    elo.Player{ID: "a", Rating: 1200},
			Loser:     elo.Player{ID: "b", Rating: 1000},
			Overrides: service.Overrides{KFactor: &k, Strategy: "uniform"},
		}
		ctx := context.Background()

		want, err := v.svc.Calculate(ctx, req)
		So(err, ShouldBeNil)

		Convey("Matching results pass", func() {
			verdict, _ := v.check(ctx, req, answer{Results: want.Results})
			So(verdict, ShouldEqual, verdictOK)
		})

		Convey("Altered results are reported with a diff", func() {
			got := append(want.Results[:0:0], want.Results...)
			got[0].Delta++
			verdict, detail := v.check(ctx, req, answer{Results: got})
			So(verdict, ShouldEqual, verdictMismatch)
			So(detail, ShouldContainSubstring, "Delta")
		})

		Convey("An unexpected refusal is a mismatch", func() {
			verdict, _ := v.check(ctx, req, answer{Code: "duplicate_id"})
			So(verdict, ShouldEqual, verdictMismatch)
		})
	})
}
