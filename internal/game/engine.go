// internal/game/engine.go
//
// Session engine for a single Mastermind game.
// Responsibilities:
//   - Create new games from Options (length, selected domain, budget, secret).
//   - Draw a random secret from the selected domain when none is supplied.
//   - Validate and score guesses, recording the history.
//   - Track state transitions: playing → won/lost.
//
// The secret never leaves the Game except through Secret(), which callers
// reveal only once the game is finished.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Options configures a new game. Zero values select the defaults.
type Options struct {
	Length int       // guess length, default DefaultLength
	Domain []Element // selected elements, default the first DefaultElements
	Budget int       // guesses allowed, default DefaultBudget(Length, len(Domain))
	Secret Sequence  // fixed secret (testing, or a secret chosen by a human)
}

// DefaultDomain returns the first n elements of the full domain.
func DefaultDomain(n int) []Element {
	out := make([]Element, n)
	for i := range out {
		out[i] = Element(i)
	}
	return out
}

// DefaultBudget is the number of guesses allowed when none is configured.
// It leaves room for the deduction engine's worst case on common sizes.
func DefaultBudget(length, elements int) int {
	return max(10, elements+2*length)
}

// New constructs a new game instance.
func New(opts Options) (*Game, error) {
	if opts.Length == 0 {
		opts.Length = DefaultLength
	}
	if len(opts.Domain) == 0 {
		opts.Domain = DefaultDomain(DefaultElements)
	}
	if opts.Length < 1 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidOptions, opts.Length)
	}
	if err := validDomain(opts.Domain); err != nil {
		return nil, err
	}
	if opts.Budget == 0 {
		opts.Budget = DefaultBudget(opts.Length, len(opts.Domain))
	}
	if opts.Budget < 1 {
		return nil, fmt.Errorf("%w: budget %d", ErrInvalidOptions, opts.Budget)
	}

	g := &Game{
		ID:      randomID(),
		Length:  opts.Length,
		Domain:  append([]Element(nil), opts.Domain...),
		Budget:  opts.Budget,
		History: []Turn{},
	}
	if opts.Secret != nil {
		if err := g.validate(opts.Secret); err != nil {
			return nil, fmt.Errorf("secret: %w", err)
		}
		g.secret = opts.Secret.Clone()
	} else {
		g.secret = randomSecret(g.Domain, g.Length)
	}
	return g, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// State transitions:
//   - Position == Length → Finished = true, Won = true (also on the last guess).
//   - Else if the number of guesses reaches Budget → Finished = true (loss).
func (g *Game) ApplyGuess(guess Sequence) (Score, State, error) {
	if g.Finished {
		return Score{}, g.State(), ErrFinished
	}
	if err := g.validate(guess); err != nil {
		return Score{}, g.State(), err
	}
	sc, err := ScoreGuess(g.secret, guess)
	if err != nil {
		return Score{}, g.State(), err
	}
	g.History = append(g.History, Turn{Guess: guess.Clone(), Score: sc})

	if sc.Solved(g.Length) {
		g.Finished, g.Won = true, true
	} else if len(g.History) >= g.Budget {
		g.Finished = true
	}
	return sc, g.State(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Secret returns a copy of the secret.
func (g *Game) Secret() Sequence { return g.secret.Clone() }

// Turns is the number of guesses made so far.
func (g *Game) Turns() int { return len(g.History) }

// Remaining is the number of guesses left in the budget.
func (g *Game) Remaining() int { return g.Budget - len(g.History) }

// InDomain reports whether e was selected for this game.
func (g *Game) InDomain(e Element) bool {
	for _, d := range g.Domain {
		if d == e {
			return true
		}
	}
	return false
}

func (g *Game) validate(s Sequence) error {
	if len(s) != g.Length {
		return fmt.Errorf("%w: want %d elements, got %d", ErrLengthMismatch, g.Length, len(s))
	}
	for _, e := range s {
		if !g.InDomain(e) {
			return fmt.Errorf("%w: %d", ErrNotInDomain, e)
		}
	}
	return nil
}

// validDomain checks that every element is in range and selected once.
func validDomain(d []Element) error {
	var seen [MaxElements]bool
	for _, e := range d {
		if !e.Valid() {
			return fmt.Errorf("%w: %w: %d", ErrInvalidOptions, ErrUnknownElement, e)
		}
		if seen[e] {
			return fmt.Errorf("%w: element %d selected twice", ErrInvalidOptions, e)
		}
		seen[e] = true
	}
	return nil
}

// randomSecret draws each position uniformly from the selected domain.
func randomSecret(domain []Element, length int) Sequence {
	out := make(Sequence, length)
	n := big.NewInt(int64(len(domain)))
	for i := range out {
		k, err := rand.Int(rand.Reader, n)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		out[i] = domain[k.Int64()]
	}
	return out
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
