package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
)

var (
	playLength   int
	playElements int
	playBudget   int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Guess a random secret in the terminal",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().IntVarP(&playLength, "length", "l", 0, "secret length (default DEFAULT_LENGTH)")
	playCmd.Flags().IntVarP(&playElements, "elements", "e", 0, "domain size (default DEFAULT_ELEMENTS)")
	playCmd.Flags().IntVarP(&playBudget, "budget", "b", 0, "guesses allowed (default max(10, elements+2*length))")
}

func runPlay(cmd *cobra.Command, args []string) error {
	elements := orDefault(playElements, cfg.DefaultDomain)
	if elements > game.MaxElements {
		return fmt.Errorf("%w: at most %d elements", game.ErrInvalidOptions, game.MaxElements)
	}
	g, err := game.New(game.Options{
		Length: orDefault(playLength, cfg.DefaultLength),
		Domain: game.DefaultDomain(elements),
		Budget: playBudget,
	})
	if err != nil {
		return err
	}
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "secret of %d over elements 0-%d, %d guesses\n", g.Length, elements-1, g.Budget)

	for !g.Finished {
		fmt.Fprintf(out, "%2d> ", g.Turns()+1)
		line, err := readLine(in)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "\nsecret was", g.Secret())
			return nil
		}
		if err != nil {
			return err
		}
		guess, err := game.ParseSequence(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		sc, _, err := g.ApplyGuess(guess)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, "    black %d  white %d\n", sc.Position, sc.ValueOnly)
	}
	if g.Won {
		fmt.Fprintf(out, "won in %d\n", g.Turns())
	} else {
		fmt.Fprintln(out, "out of guesses, secret was", g.Secret())
	}
	return nil
}
