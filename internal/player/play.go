// internal/player/play.go
//
// Autoplayer: drives a deduction engine against a game session.
// Responsibilities:
//   - Loop NextGuess → ApplyGuess → Update until the game is finished.
//   - Optional pacing between rounds (the turn timer of an on-screen game).
//   - Stop between rounds when the context is cancelled.
//
// The engine never sees the secret; it only receives the scores the session
// hands back.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
)

// ErrMismatch is returned when the engine and the session disagree on the
// shape of the game.
var ErrMismatch = errors.New("engine and game disagree")

// Options tunes a single autoplay run.
type Options struct {
	Delay time.Duration // pause between rounds, 0 plays at full speed
}

// Transcript is the record of one autoplay run.
type Transcript struct {
	GameID string        `json:"gameId"`
	Turns  []game.Turn   `json:"turns"`
	State  game.State    `json:"state"`
	Secret game.Sequence `json:"secret,omitempty"` // set once the game is finished
	Rounds int           `json:"rounds"`
	Engine string        `json:"engine,omitempty"` // knowledge base at the end, for debugging
}

// Play lets b guess until g is finished, the engine gives up or ctx is done.
// Turns already in g's history are not replayed; start with a fresh engine
// on a fresh game.
func Play(ctx context.Context, g *game.Game, b *brain.Brain, opts Options) (Transcript, error) {
	if b.Length() != g.Length {
		return Transcript{}, fmt.Errorf("%w: length %d vs %d", ErrMismatch, b.Length(), g.Length)
	}
	tr := Transcript{GameID: g.ID, State: g.State()}

	var tick <-chan time.Time
	if opts.Delay > 0 {
		t := time.NewTicker(opts.Delay)
		defer t.Stop()
		tick = t.C
	}

	for !g.Finished {
		if tick != nil && len(tr.Turns) > 0 {
			select {
			case <-ctx.Done():
				return tr, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return tr, err
		}

		guess, err := b.NextGuess()
		if err != nil {
			return tr, fmt.Errorf("round %d: %w", len(tr.Turns)+1, err)
		}
		sc, state, err := g.ApplyGuess(guess)
		if err != nil {
			return tr, fmt.Errorf("round %d: %w", len(tr.Turns)+1, err)
		}
		tr.Turns = append(tr.Turns, game.Turn{Guess: guess, Score: sc})
		tr.State = state

		log.Debug().
			Str("gameId", g.ID).
			Int("round", len(tr.Turns)).
			Str("guess", guess.String()).
			Int("black", sc.Position).
			Int("white", sc.ValueOnly).
			Msg("autoplay")

		if err := b.Update(sc); err != nil {
			return tr, fmt.Errorf("round %d: %w", len(tr.Turns), err)
		}
	}

	tr.Rounds = len(tr.Turns)
	tr.Secret = g.Secret()
	tr.Engine = b.String()
	return tr, nil
}
