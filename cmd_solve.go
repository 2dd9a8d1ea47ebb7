package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
)

var (
	solveLength   int
	solveElements int
	solveVerbose  bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Think of a secret; the engine guesses and you score each guess",
	Long: `Think of a secret over the first N elements (0..N-1). For every guess
answer "black white": black counts elements in the right position, white
elements that occur in the secret elsewhere. "undo" takes back the last
score, "quit" stops.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntVarP(&solveLength, "length", "l", 0, "secret length (default DEFAULT_LENGTH)")
	solveCmd.Flags().IntVarP(&solveElements, "elements", "e", 0, "domain size (default DEFAULT_ELEMENTS)")
	solveCmd.Flags().BoolVarP(&solveVerbose, "verbose", "v", false, "print the knowledge base after each score")
}

func runSolve(cmd *cobra.Command, args []string) error {
	length, elements := orDefault(solveLength, cfg.DefaultLength), orDefault(solveElements, cfg.DefaultDomain)
	b, err := brain.New(brain.Config{Length: length, Domain: game.DefaultDomain(elements)})
	if err != nil {
		return err
	}
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "secret of %d over elements 0-%d\n", length, elements-1)

	good := b.Snapshot()
	for !b.Solved() {
		guess, err := b.NextGuess()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "guess %d: %s > ", b.Rounds()+1, guess)
		line, err := readLine(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch line {
		case "quit", "q":
			return nil
		case "undo", "u":
			b.Restore(good)
			continue
		}
		sc, err := parseScore(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		before := b.Snapshot()
		if err := update(b, sc); err != nil {
			fmt.Fprintln(out, "rejected:", err)
			b.Restore(before)
			continue
		}
		good = before
		if solveVerbose {
			fmt.Fprintln(out, b)
		}
	}
	fmt.Fprintf(out, "solved in %d guesses\n", b.Rounds())
	return nil
}

// update applies sc and checks that a next guess still exists, so a score
// no secret can produce is refused right away.
func update(b *brain.Brain, sc game.Score) error {
	if err := b.Update(sc); err != nil {
		return err
	}
	if b.Solved() {
		return nil
	}
	_, err := b.NextGuess()
	return err
}

// parseScore reads "black white", also accepting "black,white" and "bw".
func parseScore(s string) (game.Score, error) {
	f := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '/' })
	if len(f) == 1 && len(f[0]) == 2 {
		f = []string{f[0][:1], f[0][1:]}
	}
	if len(f) != 2 {
		return game.Score{}, errors.New(`score as "black white", e.g. "1 2"`)
	}
	black, err1 := strconv.Atoi(f[0])
	white, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil {
		return game.Score{}, fmt.Errorf("score %q: not two numbers", s)
	}
	return game.Score{Position: black, ValueOnly: white}, nil
}

func readLine(in *bufio.Scanner) (string, error) {
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(in.Text()), nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
