// internal/httpserver/sessions.go
//
// Per-session state held in memory while a game is in progress.
// Each session carries its own mutex: engines assume a single owner, and
// two requests for the same game must not interleave. A request may load a
// session that another request finishes while it waits on the mutex, so
// handlers go through acquire and bail out when the session is done.

package httpserver

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/game/codebreaker"
	"github.com/robalobadob/minigames/internal/game/tictactoe"
	"github.com/robalobadob/minigames/internal/metrics"
	"github.com/robalobadob/minigames/internal/stats"
)

type tttSession struct {
	mu       sync.Mutex
	done     bool // set under mu before the session leaves the store
	ID       string
	Owner    string
	PlayerID string // empty for guests
	Engine   *tictactoe.Engine
	Moves    int
}

type cbSession struct {
	mu       sync.Mutex
	done     bool
	ID       string
	Owner    string
	PlayerID string
	Engine   *codebreaker.Engine
	Daily    string // date key for the daily challenge, empty otherwise
}

// acquire locks the session. It returns false, with the lock released,
// when the session was finished by a request that got there first.
func (t *tttSession) acquire() bool {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return false
	}
	return true
}

func (c *cbSession) acquire() bool {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return false
	}
	return true
}

// started records a new session for metrics and, for players, history.
func (s *Server) started(ctx context.Context, game, id, playerID, difficulty string) {
	metrics.GameStarted(game)
	log.Debug().Str("game", game).Str("sessionId", id).Str("player", playerID).Msg("session started")
	if playerID == "" {
		return
	}
	if err := s.db.StartGame(ctx, id, playerID, game, difficulty); err != nil {
		log.Warn().Err(err).Str("sessionId", id).Msg("insert game row")
	}
}

// finished records the outcome. Stats failures are logged, never surfaced:
// the game result has already been decided.
func (s *Server) finished(ctx context.Context, game, id, playerID string, o stats.Outcome, moves int) {
	metrics.GameFinished(game, string(o))
	log.Info().Str("game", game).Str("sessionId", id).Str("outcome", string(o)).Int("moves", moves).Msg("session finished")
	if playerID == "" {
		return
	}
	if err := s.db.FinishGame(ctx, id, o, moves); err != nil {
		log.Warn().Err(err).Str("sessionId", id).Msg("finish game row")
	}
	guesses := 0
	if game == stats.GameCodeBreaker {
		guesses = moves
	}
	if err := s.db.RecordResult(ctx, playerID, game, o, guesses); err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("record result")
	}
}
