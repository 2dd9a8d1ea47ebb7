package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/player"
)

var benchOpts player.BenchOptions

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Let the engine play random games and report how many guesses it needs",
	Example: `  mastermind bench --trials 1000
  mastermind bench --length 5 --elements 10 --budget 16`,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVarP(&benchOpts.Trials, "trials", "n", 100, "number of games")
	f.IntVarP(&benchOpts.Length, "length", "l", 0, "guess length (default DEFAULT_LENGTH)")
	f.IntVarP(&benchOpts.Elements, "elements", "e", 0, "domain size (default DEFAULT_ELEMENTS)")
	f.IntVarP(&benchOpts.Budget, "budget", "b", 0, "guesses per game (default max(10, elements+2*length))")
	f.IntVarP(&benchOpts.Workers, "workers", "w", 0, "concurrent games (default GOMAXPROCS)")
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := benchOpts
	if opts.Length == 0 {
		opts.Length = cfg.DefaultLength
	}
	if opts.Elements == 0 {
		opts.Elements = cfg.DefaultDomain
	}
	rep, err := player.Bench(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "games %d  won %d  lost %d  max %d  mean %.2f\n",
		rep.Trials, rep.Wins, rep.Losses, rep.Max, rep.Mean)
	widest := 0
	for _, row := range rep.Rows() {
		widest = max(widest, row[1])
	}
	for _, row := range rep.Rows() {
		bar := 0
		if widest > 0 {
			bar = row[1] * 40 / widest
		}
		fmt.Fprintf(out, "%3d %6d %s\n", row[0], row[1], strings.Repeat("#", bar))
	}
	for _, f := range rep.Failed {
		fmt.Fprintln(out, "failed:", f)
	}
	return nil
}
