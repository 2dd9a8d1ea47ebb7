package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreGuess(t *testing.T) {
	tests := []struct {
		name          string
		secret, guess Sequence
		want          Score
	}{
		{"reversed distinct", Sequence{1, 2, 3, 4}, Sequence{4, 3, 2, 1}, Score{0, 4}},
		{"swapped pairs", Sequence{1, 1, 2, 2}, Sequence{2, 2, 1, 1}, Score{0, 4}},
		{"exact", Sequence{0, 1, 2, 3}, Sequence{0, 1, 2, 3}, Score{4, 0}},
		{"nothing", Sequence{0, 0, 0, 0}, Sequence{1, 1, 1, 1}, Score{0, 0}},
		{"repeated guess element counted once", Sequence{0, 1, 2, 3}, Sequence{0, 0, 0, 0}, Score{1, 0}},
		{"repeated secret element", Sequence{5, 5, 1, 2}, Sequence{1, 5, 5, 5}, Score{1, 2}},
		{"mixed", Sequence{3, 2, 1, 0}, Sequence{0, 0, 1, 1}, Score{1, 1}},
		{"single", Sequence{7}, Sequence{7}, Score{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreGuess(tt.secret, tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreGuessLengthMismatch(t *testing.T) {
	_, err := ScoreGuess(Sequence{0, 1, 2, 3}, Sequence{0, 1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestScoreGuessUnknownElement(t *testing.T) {
	_, err := ScoreGuess(Sequence{0, 1}, Sequence{0, MaxElements})
	assert.ErrorIs(t, err, ErrUnknownElement)
}

// Every pair of length-3 sequences over four elements.
func TestScoreGuessBounds(t *testing.T) {
	all := allSequences(3, 4)
	for _, s := range all {
		self, err := ScoreGuess(s, s)
		require.NoError(t, err)
		require.Equal(t, Score{3, 0}, self)

		for _, g := range all {
			sc, err := ScoreGuess(s, g)
			require.NoError(t, err)
			require.GreaterOrEqual(t, sc.Position, 0)
			require.GreaterOrEqual(t, sc.ValueOnly, 0)
			require.LessOrEqual(t, sc.Position+sc.ValueOnly, 3, "secret %v guess %v", s, g)

			back, err := ScoreGuess(g, s)
			require.NoError(t, err)
			require.Equal(t, sc, back, "scoring is symmetric")
		}
	}
}

func TestScoreGuessPermutationInvariance(t *testing.T) {
	secret := Sequence{1, 2, 2, 3}
	// Permuting the guess positions that do not match leaves the total unchanged.
	a, err := ScoreGuess(secret, Sequence{2, 3, 1, 2})
	require.NoError(t, err)
	b, err := ScoreGuess(secret, Sequence{3, 1, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, a.Position+a.ValueOnly, b.Position+b.ValueOnly)
	assert.Equal(t, Score{0, 4}, a)
}

func TestParseSequence(t *testing.T) {
	for _, in := range []string{"0 1 2 3", "0,1,2,3", "0123", " 0, 1 ,2 3 "} {
		got, err := ParseSequence(in)
		require.NoError(t, err, in)
		assert.Equal(t, Sequence{0, 1, 2, 3}, got, in)
	}
	_, err := ParseSequence("")
	assert.Error(t, err)
	_, err = ParseSequence("12 x")
	assert.Error(t, err)
	_, err = ParseSequence("1 11")
	assert.ErrorIs(t, err, ErrUnknownElement)

	assert.Equal(t, "4 0 9", Sequence{4, 0, 9}.String())
}

func allSequences(length, elements int) []Sequence {
	out := []Sequence{{}}
	for i := 0; i < length; i++ {
		var next []Sequence
		for _, s := range out {
			for e := 0; e < elements; e++ {
				next = append(next, append(s.Clone(), Element(e)))
			}
		}
		out = next
	}
	return out
}
