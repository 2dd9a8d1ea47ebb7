package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGameFinished(t *testing.T) {
	won := testutil.ToFloat64(gamesFinished.WithLabelValues(ModeEngine, "won"))
	lost := testutil.ToFloat64(gamesFinished.WithLabelValues(ModeEngine, "lost"))

	GameFinished(ModeEngine, true, 6)
	GameFinished(ModeEngine, false, 10)

	assert.Equal(t, won+1, testutil.ToFloat64(gamesFinished.WithLabelValues(ModeEngine, "won")))
	assert.Equal(t, lost+1, testutil.ToFloat64(gamesFinished.WithLabelValues(ModeEngine, "lost")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(contradictions.WithLabelValues(ModeSolver))
	Contradiction(ModeSolver)
	assert.Equal(t, before+1, testutil.ToFloat64(contradictions.WithLabelValues(ModeSolver)))

	GameStarted(ModeHuman)
	assert.GreaterOrEqual(t, testutil.ToFloat64(gamesStarted.WithLabelValues(ModeHuman)), 1.0)

	SetLiveSessions(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(liveSessions))
}
