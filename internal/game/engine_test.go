package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	g, err := New(Options{})
	require.NoError(t, err)
	assert.Len(t, g.ID, 16)
	assert.Equal(t, DefaultLength, g.Length)
	assert.Equal(t, DefaultDomain(DefaultElements), g.Domain)
	assert.Equal(t, DefaultBudget(DefaultLength, DefaultElements), g.Budget)
	assert.Equal(t, StatePlaying, g.State())

	secret := g.Secret()
	require.Len(t, secret, DefaultLength)
	for _, e := range secret {
		assert.True(t, g.InDomain(e))
	}
}

func TestNewRandomSecretUsesSelectedDomain(t *testing.T) {
	domain := []Element{2, 5, 9}
	for i := 0; i < 50; i++ {
		g, err := New(Options{Length: 5, Domain: domain})
		require.NoError(t, err)
		for _, e := range g.Secret() {
			assert.Contains(t, domain, e)
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"negative length", Options{Length: -1}, ErrInvalidOptions},
		{"duplicate element", Options{Domain: []Element{1, 1}}, ErrInvalidOptions},
		{"element out of range", Options{Domain: []Element{0, MaxElements}}, ErrUnknownElement},
		{"negative budget", Options{Budget: -3}, ErrInvalidOptions},
		{"short secret", Options{Secret: Sequence{0, 1}}, ErrLengthMismatch},
		{"secret outside domain", Options{Domain: []Element{0, 1, 2}, Secret: Sequence{0, 1, 2, 3}}, ErrNotInDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyGuessWin(t *testing.T) {
	g, err := New(Options{Secret: Sequence{0, 1, 2, 3}})
	require.NoError(t, err)

	sc, st, err := g.ApplyGuess(Sequence{3, 2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, Score{0, 4}, sc)
	assert.Equal(t, StatePlaying, st)

	sc, st, err = g.ApplyGuess(Sequence{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Score{4, 0}, sc)
	assert.Equal(t, StateWon, st)
	assert.Equal(t, 2, g.Turns())

	_, _, err = g.ApplyGuess(Sequence{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyGuessBudget(t *testing.T) {
	g, err := New(Options{Secret: Sequence{0, 1, 2, 3}, Budget: 2})
	require.NoError(t, err)

	_, st, err := g.ApplyGuess(Sequence{5, 5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, st)
	assert.Equal(t, 1, g.Remaining())

	_, st, err = g.ApplyGuess(Sequence{4, 4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, StateLost, st)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

func TestApplyGuessWinOnLastAllowedGuess(t *testing.T) {
	g, err := New(Options{Secret: Sequence{0, 1, 2, 3}, Budget: 1})
	require.NoError(t, err)
	_, st, err := g.ApplyGuess(Sequence{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, StateWon, st)
}

func TestApplyGuessValidation(t *testing.T) {
	g, err := New(Options{Domain: []Element{0, 1, 2, 3, 4, 5}, Secret: Sequence{0, 1, 2, 3}})
	require.NoError(t, err)

	_, _, err = g.ApplyGuess(Sequence{0, 1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, _, err = g.ApplyGuess(Sequence{0, 1, 2, 7})
	assert.ErrorIs(t, err, ErrNotInDomain)

	assert.Empty(t, g.History, "rejected guesses are not recorded")
}

func TestHistoryIsIsolatedFromCaller(t *testing.T) {
	g, err := New(Options{Secret: Sequence{0, 1, 2, 3}})
	require.NoError(t, err)
	guess := Sequence{1, 1, 1, 1}
	_, _, err = g.ApplyGuess(guess)
	require.NoError(t, err)
	guess[0] = 5
	assert.Equal(t, Sequence{1, 1, 1, 1}, g.History[0].Guess)

	s := g.Secret()
	s[0] = 5
	assert.Equal(t, Sequence{0, 1, 2, 3}, g.Secret())
}
