package brain

import "github.com/robalobadob/mastermind/internal/game"

// Snapshot is a deep copy of an engine's state.
type Snapshot struct {
	kb         *KnowledgeBase
	considered int
	fixing     cursor
	pending    game.Sequence
	solved     bool
	rounds     int
	err        error
}

// Snapshot captures the current state. Take one before Update when the
// score comes from a source that may be wrong.
func (b *Brain) Snapshot() Snapshot {
	return Snapshot{
		kb:         b.kb.clone(),
		considered: b.considered,
		fixing:     b.fixing,
		pending:    b.pending.Clone(),
		solved:     b.solved,
		rounds:     b.rounds,
		err:        b.err,
	}
}

// Restore rolls the engine back to s. The snapshot stays reusable.
func (b *Brain) Restore(s Snapshot) {
	b.kb = s.kb.clone()
	b.considered = s.considered
	b.fixing = s.fixing
	b.pending = s.pending.Clone()
	b.solved = s.solved
	b.rounds = s.rounds
	b.err = s.err
}
