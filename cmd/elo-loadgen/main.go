// Command elo-loadgen posts random matches to a running elod and checks
// every answer against a local calculation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/elo/internal/loadgen"
	"github.com/okian/elo/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Default configuration constants.
const (
	defaultMatches     = 10000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "elo-loadgen:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "elo-loadgen",
		Usage: "load and verify a running elod",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:9080", Usage: "base URL of the service"},
			&cli.IntFlag{Name: "matches", Aliases: []string{"n"}, Value: defaultMatches, Usage: "number of matches to generate"},
			&cli.IntFlag{Name: "batch", Value: 0, Usage: "matches per /v1/batch request (0 posts them one by one)"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU() * defaultWorkers, Usage: "number of concurrent senders"},
			&cli.DurationFlag{Name: "timeout", Value: defaultTimeout, Usage: "HTTP request timeout"},
			&cli.DurationFlag{Name: "deadline", Value: defaultTestTimeout, Usage: "overall run deadline"},
			&cli.Uint64Flag{Name: "seed", Usage: "generator seed (default: current time)"},
			&cli.StringFlag{Name: "output", Usage: "write the generated matches to this JSON file"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(c.String("log-level")); err != nil {
		return err
	}

	seed := c.Uint64("seed")
	if !c.IsSet("seed") {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative wall clock
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Duration("deadline"))
	defer cancel()

	_, err := loadgen.Run(ctx, &loadgen.Config{
		BaseURL:    c.String("url"),
		Matches:    c.Int("matches"),
		BatchSize:  c.Int("batch"),
		Workers:    c.Int("workers"),
		Timeout:    c.Duration("timeout"),
		Seed:       seed,
		OutputFile: c.String("output"),
	})
	return err
}
