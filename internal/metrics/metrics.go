// internal/metrics/metrics.go
//
// Prometheus counters for game activity, served on /metrics.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minigames",
		Name:      "games_started_total",
		Help:      "Game sessions started, by game.",
	}, []string{"game"})

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minigames",
		Name:      "games_finished_total",
		Help:      "Game sessions finished, by game and outcome.",
	}, []string{"game", "outcome"})

	moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minigames",
		Name:      "moves_total",
		Help:      "Moves submitted, by game and result (ok or the rejection reason).",
	}, []string{"game", "result"})
)

// GameStarted counts a new session.
func GameStarted(game string) { gamesStarted.WithLabelValues(game).Inc() }

// GameFinished counts a session ending with outcome.
func GameFinished(game, outcome string) { gamesFinished.WithLabelValues(game, outcome).Inc() }

// Move counts one submitted move.
func Move(game, result string) { moves.WithLabelValues(game, result).Inc() }
