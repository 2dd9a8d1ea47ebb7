// internal/brain/brain.go
//
// Deduction engine for Mastermind.
//
// The engine keeps a knowledge base of inferences learned from scored guesses
// and builds each new guess from it, without searching the code space. Two
// cursors sweep forward through the game:
//   - considered: the domain element being tried for the first time, to learn
//     how many times it occurs in the secret;
//   - fixing: an inference whose element is known to occur, whose position is
//     being pinned down one candidate at a time.
//
// Each guess varies at most the considered element and the fixing element
// against what is already tied, which is what lets a white count of 0, 1 or 2
// be read as a precise statement about the probed position. The engine
// sees scores only, never the secret.
//
// A Brain is not safe for concurrent use. Drivers serialise rounds.
package brain

import (
	"errors"
	"fmt"

	"github.com/robalobadob/mastermind/internal/game"
)

var (
	ErrInvalidConfig  = errors.New("invalid engine config")
	ErrNoPendingGuess = errors.New("no pending guess to score")
	ErrInvalidScore   = errors.New("invalid score")
	ErrContradiction  = errors.New("contradictory feedback")
	ErrExhausted      = errors.New("no element left to place")
	ErrSolved         = errors.New("already solved")
)

// Config is the construction-time configuration of an engine.
type Config struct {
	Length int            // guess length
	Domain []game.Element // elements in play, in the order they are probed
}

// cursor is an optional reference to an inference.
type cursor struct {
	key Key
	ok  bool
}

// Brain is the inference engine for one playthrough.
type Brain struct {
	length int
	domain []game.Element
	kb     *KnowledgeBase

	considered int // index into domain, -1 once every element has been tried
	fixing     cursor

	pending game.Sequence // last guess handed out, awaiting its score
	solved  bool
	rounds  int
	err     error // set when an update failed half way
}

// New constructs an engine.
func New(cfg Config) (*Brain, error) {
	if cfg.Length < 1 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidConfig, cfg.Length)
	}
	if len(cfg.Domain) == 0 {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidConfig)
	}
	seen := make(map[game.Element]bool, len(cfg.Domain))
	for _, e := range cfg.Domain {
		if !e.Valid() {
			return nil, fmt.Errorf("%w: element %d out of range", ErrInvalidConfig, e)
		}
		if seen[e] {
			return nil, fmt.Errorf("%w: element %d listed twice", ErrInvalidConfig, e)
		}
		seen[e] = true
	}
	domain := append([]game.Element(nil), cfg.Domain...)
	return &Brain{
		length: cfg.Length,
		domain: domain,
		kb:     NewKnowledgeBase(cfg.Length, domain),
	}, nil
}

// NextGuess builds the next guess, position by position:
//  1. a position tied to an inference gets that element;
//  2. the fixing inference's current candidate gets the fixing element;
//  3. with as many inferences as positions, the rest get the element of the
//     second unfixed inference;
//  4. otherwise the rest get the considered element.
//
// Calling NextGuess again before Update returns the same guess.
func (b *Brain) NextGuess() (game.Sequence, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.solved {
		return nil, ErrSolved
	}
	if b.pending != nil {
		return b.pending.Clone(), nil
	}

	fi := b.fixingIndex()
	probe := -1
	if fi >= 0 {
		probe = b.kb.infs[fi].Current()
	}
	guess := make(game.Sequence, b.length)
	for i := range guess {
		if e, ok := b.kb.TiedTo(i); ok {
			guess[i] = e
			continue
		}
		if i == probe {
			guess[i] = b.kb.infs[fi].Element
			continue
		}
		if b.kb.Len() == b.length {
			si := b.secondUnfixed()
			if si < 0 {
				return nil, ErrExhausted
			}
			guess[i] = b.kb.infs[si].Element
			continue
		}
		if b.considered < 0 {
			return nil, ErrExhausted
		}
		guess[i] = b.domain[b.considered]
	}
	b.pending = guess
	return guess.Clone(), nil
}

// Update folds the score of the pending guess into the knowledge base.
//
// Errors returned before any state changes (no pending guess, malformed
// score, white count outside what the guess construction allows) leave the
// engine as it was. A contradiction found while applying the score leaves
// the engine unusable; restore a Snapshot to continue.
func (b *Brain) Update(s game.Score) error {
	if b.err != nil {
		return b.err
	}
	if b.pending == nil {
		return ErrNoPendingGuess
	}
	if s.Position < 0 || s.ValueOnly < 0 || s.Position+s.ValueOnly > b.length {
		return fmt.Errorf("%w: %s for length %d", ErrInvalidScore, s, b.length)
	}
	if s.Solved(b.length) {
		b.pending = nil
		b.solved = true
		b.rounds++
		return nil
	}

	fi := b.fixingIndex()
	if s.ValueOnly > 2 {
		return fmt.Errorf("%w: white %d, at most 2 elements move per guess", ErrContradiction, s.ValueOnly)
	}
	if fi < 0 && s.ValueOnly != 0 {
		return fmt.Errorf("%w: white %d while no position is probed", ErrContradiction, s.ValueOnly)
	}

	// gain is the number of occurrences of the considered element not yet
	// accounted for: tied positions score black, the probed one scores once.
	gain := s.Position + s.ValueOnly - b.kb.NumTied()
	if fi >= 0 {
		gain--
	}
	if b.considered >= 0 && (gain < 0 || b.kb.Len()+gain > b.length) {
		return fmt.Errorf("%w: %s implies %d new occurrences with %d known",
			ErrContradiction, s, gain, b.kb.Len())
	}

	b.pending = nil
	b.rounds++
	first := b.kb.Len() == 0
	if b.considered >= 0 {
		b.kb.Add(b.domain[b.considered], gain)
	}
	if first && b.kb.Len() == 0 {
		b.advanceConsidered()
		return nil
	}

	if err := b.apply(s.ValueOnly); err != nil {
		b.err = err
		return err
	}
	b.settle()
	if err := b.kb.Verify(); err != nil {
		b.err = err
		return err
	}
	b.advanceConsidered()
	return nil
}

// apply reads the white count of the last guess.
func (b *Brain) apply(white int) error {
	switch white {
	case 0:
		// the fixing element scored black: it sits at the probed position
		b.commitFixing()
		b.advanceFixing()
	case 1:
		// the fixing element scored white and nothing else lives there
		fi := b.fixingIndex()
		pos := b.kb.infs[fi].Current()
		if b.considered >= 0 {
			b.kb.removeFromElement(b.domain[b.considered], pos)
		}
		b.kb.infs[fi].remove(pos)
	case 2:
		// the fixing element scored white and so did whatever fills the
		// probed position elsewhere in the guess: that element lives there
		fi := b.fixingIndex()
		pos := b.kb.infs[fi].Current()
		var e game.Element
		if b.considered >= 0 {
			e = b.domain[b.considered]
		} else {
			si := b.secondUnfixed()
			if si < 0 {
				return fmt.Errorf("%w: white 2 with no second element in play", ErrContradiction)
			}
			e = b.kb.infs[si].Element
		}
		if !b.kb.pinFirst(e, pos) {
			return fmt.Errorf("%w: no open occurrence of element %d for position %d", ErrContradiction, e, pos)
		}
	}
	return nil
}

// settle propagates ties to a fixed point, then commits the fixing
// inference for as long as it is tied.
func (b *Brain) settle() {
	b.kb.Propagate()
	for {
		fi := b.fixingIndex()
		if fi < 0 || !b.kb.infs[fi].Tied() {
			return
		}
		b.commitFixing()
		b.advanceFixing()
	}
}

func (b *Brain) commitFixing() {
	if fi := b.fixingIndex(); fi >= 0 {
		b.kb.commit(fi)
	}
}

// advanceFixing moves fixing to the next not-fixed inference in order, or
// to the first one when fixing was never set.
func (b *Brain) advanceFixing() {
	next := b.kb.nextUnfixed(b.fixingIndex())
	if next < 0 {
		b.fixing = cursor{}
		return
	}
	b.fixing = cursor{key: b.kb.infs[next].Key(), ok: true}
}

// advanceConsidered moves to the next domain element. Once every secret
// occurrence is known there is nothing left to consider.
func (b *Brain) advanceConsidered() {
	if b.kb.Len() == b.length || b.considered < 0 || b.considered+1 >= len(b.domain) {
		b.considered = -1
		return
	}
	b.considered++
}

func (b *Brain) fixingIndex() int {
	if !b.fixing.ok {
		return -1
	}
	return b.kb.index(b.fixing.key)
}

// secondUnfixed returns the first not-fixed inference after fixing whose
// element differs from fixing's. An inference of fixing's own element is
// kept as a fallback, and once held the scan settles for the next not-fixed
// inference of any other element. -1 when nothing qualifies.
func (b *Brain) secondUnfixed() int {
	fi := b.fixingIndex()
	if fi < 0 {
		return -1
	}
	fe := b.kb.infs[fi].Element
	fallback := -1
	for i := fi + 1; i < len(b.kb.infs); i++ {
		inf := &b.kb.infs[i]
		if inf.Fixed {
			continue
		}
		if fallback >= 0 {
			if inf.Element != b.kb.infs[fallback].Element {
				return i
			}
			continue
		}
		if inf.Element != fe {
			return i
		}
		fallback = i
	}
	return fallback
}

// Length is the configured guess length.
func (b *Brain) Length() int { return b.length }

// Domain returns the configured elements in probing order.
func (b *Brain) Domain() []game.Element { return append([]game.Element(nil), b.domain...) }

// Solved reports whether a score with every position matched was seen.
func (b *Brain) Solved() bool { return b.solved }

// Rounds is the number of scores applied.
func (b *Brain) Rounds() int { return b.rounds }

// Err returns the contradiction that stopped the engine, if any.
func (b *Brain) Err() error { return b.err }

// Inferences returns a copy of the knowledge base.
func (b *Brain) Inferences() []Inference { return b.kb.Inferences() }

// Considering returns the element being tried, false once all are tried.
func (b *Brain) Considering() (game.Element, bool) {
	if b.considered < 0 {
		return 0, false
	}
	return b.domain[b.considered], true
}

// Fixing returns the inference being pinned, false when there is none.
func (b *Brain) Fixing() (Inference, bool) {
	fi := b.fixingIndex()
	if fi < 0 {
		return Inference{}, false
	}
	return b.kb.infs[fi].clone(), true
}

// String renders the knowledge base and both cursors for debugging.
func (b *Brain) String() string {
	fixing := "none"
	if inf, ok := b.Fixing(); ok {
		fixing = inf.String()
	}
	considering := "none"
	if e, ok := b.Considering(); ok {
		considering = fmt.Sprint(int(e))
	}
	return fmt.Sprintf("%s fixing=%s considering=%s", b.kb, fixing, considering)
}
