// internal/game/types.go
//
// Core type definitions for Mastermind.
// Defines:
//   - Element:  one symbol (colour or digit) of the playable domain.
//   - Sequence: an ordered list of elements (a guess or a secret).
//   - Score:    black/white feedback for one guess.
//   - Turn:     a guess paired with its score.
//   - Game:     state for a single in-progress or finished session.

package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxElements is the size of the full element domain (ten colours or digits).
	MaxElements = 10

	DefaultLength   = 4
	DefaultElements = 6
)

var (
	ErrLengthMismatch = errors.New("sequence length mismatch")
	ErrUnknownElement = errors.New("element outside domain")
	ErrNotInDomain    = errors.New("element not selected for this game")
	ErrFinished       = errors.New("game finished")
	ErrInvalidOptions = errors.New("invalid game options")
)

// Element is an opaque domain symbol. Only equality and its index matter.
type Element int

// Valid reports whether e lies in the full domain.
func (e Element) Valid() bool { return e >= 0 && e < MaxElements }

// Sequence is an ordered list of elements of a fixed length.
type Sequence []Element

// String renders the sequence as space separated digits, e.g. "0 1 2 3".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = strconv.Itoa(int(e))
	}
	return strings.Join(parts, " ")
}

// Equal reports whether both sequences hold the same elements in order.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	return append(Sequence(nil), s...)
}

// ParseSequence accepts "0 1 2 3", "0,1,2,3" or the compact form "0123".
func ParseSequence(in string) (Sequence, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil, errors.New("empty sequence")
	}
	fields := strings.FieldsFunc(in, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 1 {
		// compact digits
		fields = strings.Split(fields[0], "")
	}
	out := make(Sequence, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		e := Element(n)
		if !e.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownElement, n)
		}
		out = append(out, e)
	}
	return out, nil
}

// Score is the feedback for a single guess.
//   - Position ("black"):  elements matching in value and position.
//   - ValueOnly ("white"): further matches in value only.
type Score struct {
	Position  int `json:"black"`
	ValueOnly int `json:"white"`
}

func (s Score) String() string {
	return fmt.Sprintf("p=%d d=%d", s.Position, s.ValueOnly)
}

// Solved reports whether the score ends a game of the given length.
func (s Score) Solved(length int) bool { return s.Position == length }

// Turn is one recorded guess and its score.
type Turn struct {
	Guess Sequence `json:"guess"`
	Score Score    `json:"score"`
}

// State is a coarse description of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single Mastermind session.
type Game struct {
	ID       string    // Unique game identifier (random hex string).
	Length   int       // Number of elements per guess.
	Domain   []Element // Elements selected for play, in probing order.
	Budget   int       // Maximum number of guesses allowed.
	History  []Turn    // Guesses made so far.
	Finished bool      // True once the game is over (won or lost).
	Won      bool      // True if the game was finished with a win.

	secret Sequence
}
