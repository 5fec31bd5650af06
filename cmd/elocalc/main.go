// Command elocalc rates matches described in TOML, YAML or JSON files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/okian/elo/internal/matchfile"
	"github.com/okian/elo/pkg/elo"
	"github.com/urfave/cli/v2"
)

const (
	flagKFactor  = "k-factor"
	flagStrategy = "strategy"
	flagJSON     = "json"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "elocalc:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "elocalc",
		Usage:     "compute Elo rating changes",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: flagKFactor, Aliases: []string{"k"}, Usage: "override the K-factor"},
			&cli.StringFlag{Name: flagStrategy, Aliases: []string{"s"}, Usage: "override the team strategy (uniform, weighted)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "calc",
				Usage:     "rate the match described in a file",
				ArgsUsage: "<match.toml|match.yaml|match.json>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagJSON, Usage: "print results as JSON"},
				},
				Action: calc,
			},
			{
				Name:      "expected",
				Usage:     "print the probability that rating a beats rating b",
				ArgsUsage: "<a> <b>",
				Action:    expected,
			},
		},
	}
}

// overrides converts the global flags into engine options.
func overrides(c *cli.Context) ([]elo.Option, error) {
	var opts []elo.Option
	if c.IsSet(flagKFactor) {
		opts = append(opts, elo.WithKFactor(c.Float64(flagKFactor)))
	}
	if c.IsSet(flagStrategy) {
		s, err := elo.ParseStrategy(c.String(flagStrategy))
		if err != nil {
			return nil, err
		}
		opts = append(opts, elo.WithStrategy(s))
	}
	return opts, nil
}

func calc(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("calc: expected one file, got %d arguments", c.NArg())
	}
	doc, err := matchfile.Load(c.Args().First())
	if err != nil {
		return err
	}
	opts, err := overrides(c)
	if err != nil {
		return err
	}
	results, err := doc.Calculate(opts...)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool(flagJSON) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "ID\tOLD\tNEW\tDELTA\t")
	for _, r := range results {
		_, _ = fmt.Fprintf(tw, "%s\t%g\t%g\t%+d\t\n", r.ID, r.OldRating, r.Rating, r.Delta)
	}
	return tw.Flush()
}

func expected(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected: need two ratings, got %d arguments", c.NArg())
	}
	a, err := strconv.ParseFloat(c.Args().Get(0), 64)
	if err != nil {
		return fmt.Errorf("rating a: %w", err)
	}
	b, err := strconv.ParseFloat(c.Args().Get(1), 64)
	if err != nil {
		return fmt.Errorf("rating b: %w", err)
	}
	score, err := elo.CalculateExpectedScore(elo.Rating(a), elo.Rating(b))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%.4f\n", score)
	return err
}
