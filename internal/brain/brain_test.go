package brain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func newBrain(t *testing.T, length, elements int) *Brain {
	t.Helper()
	b, err := New(Config{Length: length, Domain: game.DefaultDomain(elements)})
	require.NoError(t, err)
	return b
}

// solve plays b against secret and returns every turn, stopping at a win or
// after limit rounds.
func solve(t *testing.T, b *Brain, secret game.Sequence, limit int) []game.Turn {
	t.Helper()
	var turns []game.Turn
	for len(turns) < limit {
		guess, err := b.NextGuess()
		require.NoError(t, err, "secret %v after %v", secret, turns)
		sc, err := game.ScoreGuess(secret, guess)
		require.NoError(t, err)
		turns = append(turns, game.Turn{Guess: guess, Score: sc})
		require.NoError(t, b.Update(sc), "secret %v after %v", secret, turns)
		if sc.Solved(len(secret)) {
			break
		}
	}
	return turns
}

func seq(s string) game.Sequence {
	out, err := game.ParseSequence(s)
	if err != nil {
		panic(err)
	}
	return out
}

func TestNewRejectsBadConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"zero length":  {Length: 0, Domain: game.DefaultDomain(6)},
		"empty domain": {Length: 4},
		"duplicate":    {Length: 4, Domain: []game.Element{1, 2, 1}},
		"out of range": {Length: 4, Domain: []game.Element{1, game.MaxElements}},
	} {
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestFirstGuessProbesFirstElement(t *testing.T) {
	b := newBrain(t, 4, 6)
	g, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, seq("0000"), g)

	e, ok := b.Considering()
	assert.True(t, ok)
	assert.Equal(t, game.Element(0), e)
	_, ok = b.Fixing()
	assert.False(t, ok)
}

func TestFirstRoundLearnsOccurrences(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 1}))

	require.Equal(t, []Inference{{Element: 0, Slot: 0, Positions: []int{0, 1, 2, 3}}}, b.Inferences())
	fix, ok := b.Fixing()
	require.True(t, ok)
	assert.Equal(t, Key{Element: 0, Slot: 0}, fix.Key())
	e, ok := b.Considering()
	require.True(t, ok)
	assert.Equal(t, game.Element(1), e)
}

func TestAbsentElementsAreSkipped(t *testing.T) {
	b := newBrain(t, 4, 6)
	for i := 0; i < 3; i++ {
		g, err := b.NextGuess()
		require.NoError(t, err)
		assert.Equal(t, game.Sequence{game.Element(i), game.Element(i), game.Element(i), game.Element(i)}, g)
		require.NoError(t, b.Update(game.Score{}))
	}
	assert.Empty(t, b.Inferences())
	e, _ := b.Considering()
	assert.Equal(t, game.Element(3), e)
}

func TestTranscripts(t *testing.T) {
	type round struct {
		guess        string
		black, white int
	}
	tests := []struct {
		secret string
		want   []round
	}{
		{"0123", []round{{"0000", 1, 0}, {"0111", 2, 0}, {"0122", 3, 0}, {"0123", 4, 0}}},
		{"3210", []round{{"0000", 1, 0}, {"0111", 1, 1}, {"2022", 0, 2}, {"3203", 2, 1}, {"3210", 4, 0}}},
		{"5555", []round{{"0000", 0, 0}, {"1111", 0, 0}, {"2222", 0, 0}, {"3333", 0, 0}, {"4444", 0, 0}, {"5555", 4, 0}}},
		{"0011", []round{{"0000", 2, 0}, {"0111", 3, 0}, {"0011", 4, 0}}},
		{"1000", []round{{"0000", 3, 0}, {"0111", 0, 2}, {"1000", 4, 0}}},
		{"5433", []round{
			{"0000", 0, 0}, {"1111", 0, 0}, {"2222", 0, 0}, {"3333", 2, 0}, {"3444", 1, 1},
			{"5355", 1, 1}, {"4434", 2, 0}, {"3434", 2, 1}, {"4334", 1, 2}, {"5433", 4, 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			turns := solve(t, newBrain(t, 4, 6), seq(tt.secret), 20)
			got := make([]round, len(turns))
			for i, tr := range turns {
				got[i] = round{compact(tr.Guess), tr.Score.Position, tr.Score.ValueOnly}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnowledgeAfterEachRound(t *testing.T) {
	b := newBrain(t, 4, 6)
	secret := seq("3210")
	want := []string{
		"((0 (0 1 2 3))) fixing=(0 (0 1 2 3)) considering=1",
		"((0 (1 2 3)) (1 (1 2 3))) fixing=(0 (1 2 3)) considering=2",
		"((0 (2 3)) (1 (2 3)) (2 (1))*) fixing=(0 (2 3)) considering=3",
		"((0 (3))* (1 (2))* (2 (1))* (3 (0))*) fixing=none considering=none",
	}
	for i, w := range want {
		g, err := b.NextGuess()
		require.NoError(t, err)
		sc, err := game.ScoreGuess(secret, g)
		require.NoError(t, err)
		require.NoError(t, b.Update(sc))
		assert.Equal(t, w, b.String(), "round %d", i+1)
	}
	g, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, secret, g)
}

// Every secret of classic Mastermind (4 positions, 6 colours) is found
// within D+L guesses, and no guess is repeated back to back.
func TestConvergenceClassic(t *testing.T) {
	const length, elements = 4, 6
	worst := 0
	for _, secret := range allSecrets(length, game.DefaultDomain(elements)) {
		turns := solve(t, newBrain(t, length, elements), secret, 30)
		last := turns[len(turns)-1]
		require.True(t, last.Score.Solved(length), "secret %v not solved: %v", secret, turns)
		require.Equal(t, secret, last.Guess)
		for i := 1; i < len(turns); i++ {
			require.False(t, turns[i].Guess.Equal(turns[i-1].Guess), "secret %v repeats %v", secret, turns[i].Guess)
			require.LessOrEqual(t, turns[i-1].Score.ValueOnly, 2)
		}
		worst = max(worst, len(turns))
	}
	assert.LessOrEqual(t, worst, elements+length)
}

func TestConvergenceSelectedDomain(t *testing.T) {
	domain := []game.Element{7, 2, 9, 4, 0}
	for _, secret := range allSecrets(3, domain) {
		b, err := New(Config{Length: 3, Domain: domain})
		require.NoError(t, err)
		turns := solve(t, b, secret, 30)
		require.True(t, turns[len(turns)-1].Score.Solved(3), "secret %v: %v", secret, turns)
		assert.LessOrEqual(t, len(turns), 8)
	}
}

func TestConvergenceLongerThanDomain(t *testing.T) {
	for _, secret := range allSecrets(5, game.DefaultDomain(3)) {
		turns := solve(t, newBrain(t, 5, 3), secret, 30)
		require.True(t, turns[len(turns)-1].Score.Solved(5), "secret %v: %v", secret, turns)
	}
}

func TestConvergenceRandomTenDigits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	domain := game.DefaultDomain(10)
	for i := 0; i < 300; i++ {
		secret := make(game.Sequence, 5)
		for j := range secret {
			secret[j] = domain[rng.Intn(len(domain))]
		}
		turns := solve(t, newBrain(t, 5, 10), secret, 30)
		require.True(t, turns[len(turns)-1].Score.Solved(5), "secret %v: %v", secret, turns)
		assert.LessOrEqual(t, len(turns), 16, "secret %v", secret)
	}
}

func TestNextGuessIsStableUntilUpdate(t *testing.T) {
	b := newBrain(t, 4, 6)
	a, err := b.NextGuess()
	require.NoError(t, err)
	a[0] = 5
	c, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, seq("0000"), c)
}

func TestUpdateBeforeNextGuess(t *testing.T) {
	b := newBrain(t, 4, 6)
	assert.ErrorIs(t, b.Update(game.Score{Position: 1}), ErrNoPendingGuess)

	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 1}))
	assert.ErrorIs(t, b.Update(game.Score{Position: 1}), ErrNoPendingGuess)
}

func TestUpdateRejectsMalformedScore(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	assert.ErrorIs(t, b.Update(game.Score{Position: 3, ValueOnly: 2}), ErrInvalidScore)
	assert.ErrorIs(t, b.Update(game.Score{Position: -1}), ErrInvalidScore)
	// still pending
	assert.NoError(t, b.Update(game.Score{Position: 1}))
}

func TestContradictionRejected(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 1}))

	g, err := b.NextGuess()
	require.NoError(t, err)
	require.Equal(t, seq("0111"), g)
	before := b.String()

	err = b.Update(game.Score{ValueOnly: 3})
	require.ErrorIs(t, err, ErrContradiction)
	assert.Equal(t, before, b.String(), "rejected score leaves the engine untouched")
	assert.NoError(t, b.Err())

	again, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, g, again)
	assert.NoError(t, b.Update(game.Score{Position: 2}))
}

func TestWhiteWithoutProbeIsContradiction(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	assert.ErrorIs(t, b.Update(game.Score{ValueOnly: 1}), ErrContradiction)
}

func TestTooManyOccurrencesIsContradiction(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 3}))
	_, err = b.NextGuess()
	require.NoError(t, err)
	// three zeros known: 2 black + 2 white would mean three ones as well
	assert.ErrorIs(t, b.Update(game.Score{Position: 2, ValueOnly: 2}), ErrContradiction)
}

func TestSnapshotRestoreAfterContradiction(t *testing.T) {
	b := newBrain(t, 2, 3)
	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 1}))

	g, err := b.NextGuess()
	require.NoError(t, err)
	require.Equal(t, seq("01"), g)

	snap := b.Snapshot()
	// (1,1) on "01" ties both elements to position 1
	err = b.Update(game.Score{Position: 1, ValueOnly: 1})
	require.ErrorIs(t, err, ErrContradiction)
	assert.ErrorIs(t, b.Err(), ErrContradiction)
	_, err = b.NextGuess()
	assert.ErrorIs(t, err, ErrContradiction)

	b.Restore(snap)
	assert.NoError(t, b.Err())
	again, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, g, again)

	// the real secret is "10"
	require.NoError(t, b.Update(game.Score{ValueOnly: 2}))
	final, err := b.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, seq("10"), final)
	require.NoError(t, b.Update(game.Score{Position: 2}))
	assert.True(t, b.Solved())
	assert.Equal(t, 3, b.Rounds())

	_, err = b.NextGuess()
	assert.ErrorIs(t, err, ErrSolved)
}

func TestExhaustedWhenFeedbackMatchesNoSecret(t *testing.T) {
	b := newBrain(t, 2, 2)
	_, err := b.NextGuess()
	require.NoError(t, err)
	require.NoError(t, b.Update(game.Score{Position: 1}))
	g, err := b.NextGuess()
	require.NoError(t, err)
	require.Equal(t, seq("01"), g)
	// pins the zero to position 1 and says no one occurs
	require.NoError(t, b.Update(game.Score{ValueOnly: 1}))
	_, err = b.NextGuess()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestSnapshotIsIndependent(t *testing.T) {
	b := newBrain(t, 4, 6)
	_, err := b.NextGuess()
	require.NoError(t, err)
	snap := b.Snapshot()
	require.NoError(t, b.Update(game.Score{Position: 2}))
	require.Len(t, b.Inferences(), 2)

	b.Restore(snap)
	assert.Empty(t, b.Inferences())
	assert.Equal(t, 0, b.Rounds())
	// the restored pending guess can be scored again
	require.NoError(t, b.Update(game.Score{Position: 1}))
	assert.Len(t, b.Inferences(), 1)

	b.Restore(snap)
	assert.Empty(t, b.Inferences(), "a snapshot can be restored twice")
}

func compact(s game.Sequence) string {
	out := make([]byte, len(s))
	for i, e := range s {
		out[i] = byte('0' + e)
	}
	return string(out)
}

func allSecrets(length int, domain []game.Element) []game.Sequence {
	out := []game.Sequence{{}}
	for i := 0; i < length; i++ {
		var next []game.Sequence
		for _, s := range out {
			for _, e := range domain {
				next = append(next, append(s.Clone(), e))
			}
		}
		out = next
	}
	return out
}
