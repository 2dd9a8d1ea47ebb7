package brain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
)

// KnowledgeBase is the ordered collection of inferences for one game.
// Inferences are grouped by element in the order the elements were
// introduced (their rank in the configured domain); inferences of one
// element keep their creation order.
type KnowledgeBase struct {
	length int
	rank   map[game.Element]int
	infs   []Inference
}

// NewKnowledgeBase returns an empty knowledge base for sequences of the
// given length over domain, ranked in domain order.
func NewKnowledgeBase(length int, domain []game.Element) *KnowledgeBase {
	rank := make(map[game.Element]int, len(domain))
	for i, e := range domain {
		rank[e] = i
	}
	return &KnowledgeBase{length: length, rank: rank}
}

// Len is the number of inferences, i.e. the number of secret occurrences
// known so far.
func (kb *KnowledgeBase) Len() int { return len(kb.infs) }

// Inferences returns a copy of the collection in order.
func (kb *KnowledgeBase) Inferences() []Inference {
	out := make([]Inference, len(kb.infs))
	for i := range kb.infs {
		out[i] = kb.infs[i].clone()
	}
	return out
}

// Add appends n inferences for e, each with every position as candidate.
func (kb *KnowledgeBase) Add(e game.Element, n int) {
	slot := kb.count(e)
	for i := 0; i < n; i++ {
		kb.infs = append(kb.infs, newInference(e, slot+i, kb.length))
	}
	kb.sort()
}

func (kb *KnowledgeBase) sort() {
	sort.SliceStable(kb.infs, func(i, j int) bool {
		return kb.rank[kb.infs[i].Element] < kb.rank[kb.infs[j].Element]
	})
}

func (kb *KnowledgeBase) count(e game.Element) int {
	n := 0
	for i := range kb.infs {
		if kb.infs[i].Element == e {
			n++
		}
	}
	return n
}

// index returns the position of k in the collection, -1 if absent.
func (kb *KnowledgeBase) index(k Key) int {
	for i := range kb.infs {
		if kb.infs[i].Key() == k {
			return i
		}
	}
	return -1
}

// NumTied counts inferences with a single candidate left.
func (kb *KnowledgeBase) NumTied() int {
	n := 0
	for i := range kb.infs {
		if kb.infs[i].Tied() {
			n++
		}
	}
	return n
}

// NumFixed counts committed inferences.
func (kb *KnowledgeBase) NumFixed() int {
	n := 0
	for i := range kb.infs {
		if kb.infs[i].Fixed {
			n++
		}
	}
	return n
}

// TiedTo returns the element tied to pos, if any.
func (kb *KnowledgeBase) TiedTo(pos int) (game.Element, bool) {
	for i := range kb.infs {
		if kb.infs[i].Tied() && kb.infs[i].Current() == pos {
			return kb.infs[i].Element, true
		}
	}
	return 0, false
}

// nextUnfixed returns the first not-fixed inference after index after
// (pass -1 to start from the beginning), or -1.
func (kb *KnowledgeBase) nextUnfixed(after int) int {
	for i := after + 1; i < len(kb.infs); i++ {
		if !kb.infs[i].Fixed {
			return i
		}
	}
	return -1
}

// commit pins inference i to its current position and removes that
// position from every other inference.
func (kb *KnowledgeBase) commit(i int) {
	pos := kb.infs[i].Current()
	kb.infs[i].pin(pos)
	kb.removeExcept(i, pos)
}

// pinFirst ties the first not-fixed inference of e to pos, commits it and
// removes pos from every other inference. It reports whether such an
// inference existed.
func (kb *KnowledgeBase) pinFirst(e game.Element, pos int) bool {
	for i := range kb.infs {
		if kb.infs[i].Element == e && !kb.infs[i].Fixed {
			kb.infs[i].pin(pos)
			kb.removeExcept(i, pos)
			return true
		}
	}
	return false
}

func (kb *KnowledgeBase) removeExcept(i, pos int) {
	for j := range kb.infs {
		if j != i {
			kb.infs[j].remove(pos)
		}
	}
}

// removeFromElement removes pos from every inference of e.
func (kb *KnowledgeBase) removeFromElement(e game.Element, pos int) {
	for i := range kb.infs {
		if kb.infs[i].Element == e {
			kb.infs[i].remove(pos)
		}
	}
}

// Propagate removes every tied position from the candidates of the
// inferences that are not tied, repeating until no new tie appears.
// It reports whether any candidate was removed.
func (kb *KnowledgeBase) Propagate() bool {
	seen := make([]bool, kb.length)
	var tied []int
	changed := false
	for {
		grew := false
		for i := range kb.infs {
			p := kb.infs[i].Current()
			if kb.infs[i].Tied() && p >= 0 && p < kb.length && !seen[p] {
				seen[p] = true
				tied = append(tied, p)
				grew = true
			}
		}
		if !grew {
			return changed
		}
		for _, p := range tied {
			for i := range kb.infs {
				if !kb.infs[i].Tied() && kb.infs[i].remove(p) {
					changed = true
				}
			}
		}
	}
}

// Verify reports a contradiction: an inference with no candidate left, or
// two tied inferences sharing a position.
func (kb *KnowledgeBase) Verify() error {
	owner := make(map[int]Key)
	for i := range kb.infs {
		inf := &kb.infs[i]
		if len(inf.Positions) == 0 {
			return fmt.Errorf("%w: no position left for element %d", ErrContradiction, inf.Element)
		}
		if !inf.Tied() {
			continue
		}
		if k, ok := owner[inf.Current()]; ok {
			return fmt.Errorf("%w: position %d tied to elements %d and %d",
				ErrContradiction, inf.Current(), k.Element, inf.Element)
		}
		owner[inf.Current()] = inf.Key()
	}
	return nil
}

func (kb *KnowledgeBase) clone() *KnowledgeBase {
	return &KnowledgeBase{length: kb.length, rank: kb.rank, infs: kb.Inferences()}
}

// String renders the collection as "((0 (0))* (1 (2 3)))".
func (kb *KnowledgeBase) String() string {
	parts := make([]string, len(kb.infs))
	for i, inf := range kb.infs {
		parts[i] = inf.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
