package brain

import (
	"fmt"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
)

// Key identifies an inference: its element and the occurrence number of
// that element (0 for the first inference created for it, 1 for the next...).
type Key struct {
	Element game.Element
	Slot    int
}

// Inference claims that one occurrence of Element sits at one of Positions.
// A tied inference has a single candidate left; Fixed marks a tied inference
// that has been committed and excluded from every other inference.
type Inference struct {
	Element   game.Element `json:"element"`
	Slot      int          `json:"slot"`
	Positions []int        `json:"positions"`
	Fixed     bool         `json:"fixed"`
}

func newInference(e game.Element, slot, length int) Inference {
	pos := make([]int, length)
	for i := range pos {
		pos[i] = i
	}
	return Inference{Element: e, Slot: slot, Positions: pos}
}

// Key returns the unique key of the inference.
func (inf *Inference) Key() Key { return Key{Element: inf.Element, Slot: inf.Slot} }

// Tied reports whether a single candidate position remains.
func (inf *Inference) Tied() bool { return len(inf.Positions) == 1 }

// Current is the position currently probed for the element, -1 when none is left.
func (inf *Inference) Current() int {
	if len(inf.Positions) == 0 {
		return -1
	}
	return inf.Positions[0]
}

// Has reports whether pos is still a candidate.
func (inf *Inference) Has(pos int) bool {
	for _, p := range inf.Positions {
		if p == pos {
			return true
		}
	}
	return false
}

func (inf *Inference) remove(pos int) bool {
	for i, p := range inf.Positions {
		if p == pos {
			inf.Positions = append(inf.Positions[:i], inf.Positions[i+1:]...)
			return true
		}
	}
	return false
}

// pin ties the inference to pos and commits it.
func (inf *Inference) pin(pos int) {
	inf.Positions = []int{pos}
	inf.Fixed = true
}

func (inf Inference) clone() Inference {
	inf.Positions = append([]int(nil), inf.Positions...)
	return inf
}

// String renders the inference as "(element (p p ...))", with a trailing
// '*' once it is fixed.
func (inf Inference) String() string {
	ps := make([]string, len(inf.Positions))
	for i, p := range inf.Positions {
		ps[i] = fmt.Sprint(p)
	}
	s := fmt.Sprintf("(%d (%s))", inf.Element, strings.Join(ps, " "))
	if inf.Fixed {
		s += "*"
	}
	return s
}
