// Package metrics holds the Prometheus collectors for games and the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// gamesStarted counts sessions by mode (human, engine, solver)
	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_games_started_total",
		Help: "Games started by mode",
	}, []string{"mode"})

	// gamesFinished counts finished sessions by mode and outcome
	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_games_finished_total",
		Help: "Games finished by mode and outcome",
	}, []string{"mode", "outcome"})

	// guessesUsed tracks guesses taken by won games
	guessesUsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mastermind_guesses_per_win",
		Help:    "Guesses used by won games",
		Buckets: prometheus.LinearBuckets(1, 1, 20),
	}, []string{"mode"})

	// contradictions counts feedback the engine rejected
	contradictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_contradictions_total",
		Help: "Scores rejected as inconsistent by source",
	}, []string{"source"})

	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mastermind_live_sessions",
		Help: "Sessions held in memory",
	})
)

// Mode labels.
const (
	ModeHuman  = "human"
	ModeEngine = "engine"
	ModeSolver = "solver"
)

func GameStarted(mode string) { gamesStarted.WithLabelValues(mode).Inc() }

// GameFinished records the outcome of a game and, for wins, its length.
func GameFinished(mode string, won bool, guesses int) {
	outcome := "lost"
	if won {
		outcome = "won"
		guessesUsed.WithLabelValues(mode).Observe(float64(guesses))
	}
	gamesFinished.WithLabelValues(mode, outcome).Inc()
}

func Contradiction(source string) { contradictions.WithLabelValues(source).Inc() }

func SetLiveSessions(n int) { liveSessions.Set(float64(n)) }
