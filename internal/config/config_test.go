package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/elo/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.KFactor, convey.ShouldEqual, 15)
			convey.So(cfg.Strategy, convey.ShouldEqual, "uniform")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 1000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field each", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = " " },
			"zero k":            func(c *config.Config) { c.KFactor = 0 },
			"unknown strategy":  func(c *config.Config) { c.Strategy = "proportional" },
			"no workers":        func(c *config.Config) { c.WorkerCount = 0 },
			"no batch":          func(c *config.Config) { c.MaxBatchSize = 0 },
			"tiny match":        func(c *config.Config) { c.MaxParticipants = 1 },
			"negative rps":      func(c *config.Config) { c.RateLimitRPS = -1 },
			"burst without rps": func(c *config.Config) { c.RateLimitBurst = 0 },
			"bad log format":    func(c *config.Config) { c.LogFormat = "xml" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given rate limiting turned off", t, func() {
		cfg := config.New()
		cfg.RateLimitRPS = 0
		cfg.RateLimitBurst = 0

		convey.Convey("Then the burst is not required", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
