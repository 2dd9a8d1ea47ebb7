package player

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
)

// BenchOptions configures a batch of independent autoplay games.
type BenchOptions struct {
	Trials   int // number of games, default 100
	Length   int // default game.DefaultLength
	Elements int // domain size, default game.DefaultElements
	Budget   int // default game.DefaultBudget
	Workers  int // concurrent games, default GOMAXPROCS
}

// BenchReport summarises a batch.
type BenchReport struct {
	Trials    int         `json:"trials"`
	Wins      int         `json:"wins"`
	Losses    int         `json:"losses"`
	Max       int         `json:"maxGuesses"`
	Mean      float64     `json:"meanGuesses"`
	Histogram map[int]int `json:"histogram"` // guesses used -> games won
	Failed    []string    `json:"failed,omitempty"`
}

// Rows returns the histogram as (guesses, games) pairs in guess order.
func (r BenchReport) Rows() [][2]int {
	keys := make([]int, 0, len(r.Histogram))
	for k := range r.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([][2]int, len(keys))
	for i, k := range keys {
		out[i] = [2]int{k, r.Histogram[k]}
	}
	return out
}

func (o *BenchOptions) defaults() {
	if o.Trials <= 0 {
		o.Trials = 100
	}
	if o.Length <= 0 {
		o.Length = game.DefaultLength
	}
	if o.Elements <= 0 {
		o.Elements = game.DefaultElements
	}
	if o.Budget <= 0 {
		o.Budget = game.DefaultBudget(o.Length, o.Elements)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// Bench plays opts.Trials games with random secrets, each with a fresh
// session and engine. A game the engine loses counts as a loss; an engine
// error aborts the batch.
func Bench(ctx context.Context, opts BenchOptions) (BenchReport, error) {
	opts.defaults()
	if opts.Elements > game.MaxElements {
		return BenchReport{}, fmt.Errorf("%w: %d elements, at most %d", game.ErrInvalidOptions, opts.Elements, game.MaxElements)
	}
	domain := game.DefaultDomain(opts.Elements)

	var (
		mu  sync.Mutex
		rep = BenchReport{Trials: opts.Trials, Histogram: map[int]int{}}
		sum int
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i := 0; i < opts.Trials; i++ {
		i := i
		eg.Go(func() error {
			g, err := game.New(game.Options{Length: opts.Length, Domain: domain, Budget: opts.Budget})
			if err != nil {
				return err
			}
			b, err := brain.New(brain.Config{Length: opts.Length, Domain: domain})
			if err != nil {
				return err
			}
			tr, err := Play(ctx, g, b, Options{})
			if err != nil {
				return fmt.Errorf("trial %d (secret %s): %w", i, g.Secret(), err)
			}

			mu.Lock()
			defer mu.Unlock()
			if tr.State == game.StateWon {
				rep.Wins++
				rep.Histogram[tr.Rounds]++
				rep.Max = max(rep.Max, tr.Rounds)
				sum += tr.Rounds
			} else {
				rep.Losses++
				rep.Failed = append(rep.Failed, tr.Secret.String())
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return rep, err
	}
	if rep.Wins > 0 {
		rep.Mean = float64(sum) / float64(rep.Wins)
	}
	sort.Strings(rep.Failed)

	log.Info().
		Int("trials", rep.Trials).
		Int("wins", rep.Wins).
		Int("max", rep.Max).
		Float64("mean", rep.Mean).
		Msg("bench finished")
	return rep, nil
}
