// internal/httpserver/routes_codebreaker.go
//
// 1A2B code-breaking game:
//   - POST /1a2b/new                      → new session with a random secret
//   - POST /1a2b/guess  {gameId, guess}   → A/B score for a 4-digit guess
//   - POST /1a2b/giveup {gameId}          → reveal the answer and end the session
//
// A guess with a repeated digit is rejected with "invalid_guess" and the
// session stays open; it still counts as an attempt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/game/codebreaker"
	"github.com/robalobadob/minigames/internal/metrics"
	"github.com/robalobadob/minigames/internal/stats"
)

func (s *Server) mountCodeBreaker(r chi.Router) {
	r.Route("/1a2b", func(r chi.Router) {
		r.Post("/new", s.handleCBNew)
		r.Post("/guess", s.handleCBGuess)
		r.Post("/giveup", s.handleCBGiveUp)
	})
}

type cbNewRes struct {
	GameID string `json:"gameId"`
	Length int    `json:"length"`
}

func (s *Server) handleCBNew(w http.ResponseWriter, r *http.Request) {
	sess := &cbSession{
		ID:     uuid.NewString(),
		Owner:  s.owner(w, r),
		Engine: codebreaker.New(),
	}
	if p := playerFrom(r); p != nil {
		sess.PlayerID = p.ID
	}
	if err := s.cb.Save(r.Context(), sess.ID, sess); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.started(r.Context(), stats.GameCodeBreaker, sess.ID, sess.PlayerID, "")

	_ = json.NewEncoder(w).Encode(cbNewRes{GameID: sess.ID, Length: codebreaker.AnswerLength})
}

type cbGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type cbGuessRes struct {
	codebreaker.Score
	Guesses int    `json:"guesses"`
	Seconds int    `json:"seconds"`
	State   string `json:"state"` // playing | won
}

// cbSessionFor loads a 1A2B session owned by the caller. daily selects
// the daily challenge instead of a free game.
func (s *Server) cbSessionFor(w http.ResponseWriter, r *http.Request, id string, daily bool) (*cbSession, bool) {
	sess, err := s.cb.Get(r.Context(), id)
	if err != nil || sess.Owner != s.owner(w, r) || (sess.Daily != "") != daily {
		writeErr(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

// scoreGuess runs one guess against the session. On a malformed or invalid
// guess it writes the error response and returns ok=false.
func (s *Server) scoreGuess(w http.ResponseWriter, sess *cbSession, raw string) (codebreaker.Score, bool) {
	g, err := codebreaker.ParseGuess(raw)
	if err != nil {
		rejectGuess(sess, "malformed_guess")
		writeErr(w, http.StatusBadRequest, "malformed_guess")
		return codebreaker.Score{}, false
	}
	score, err := sess.Engine.Score(g)
	switch {
	case errors.Is(err, codebreaker.ErrInvalidGuess):
		rejectGuess(sess, "invalid_guess")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_guess", "guesses": sess.Engine.Guesses()})
		return codebreaker.Score{}, false
	case err != nil:
		rejectGuess(sess, "malformed_guess")
		writeErr(w, http.StatusBadRequest, "malformed_guess")
		return codebreaker.Score{}, false
	}
	metrics.Move(stats.GameCodeBreaker, "ok")
	return score, true
}

func rejectGuess(sess *cbSession, reason string) {
	metrics.Move(stats.GameCodeBreaker, reason)
	log.Debug().Str("game", stats.GameCodeBreaker).Str("sessionId", sess.ID).Str("reason", reason).Msg("guess rejected")
}

func (s *Server) handleCBGuess(w http.ResponseWriter, r *http.Request) {
	var req cbGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.cbSessionFor(w, r, req.GameID, false)
	if !ok {
		return
	}

	if !sess.acquire() {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	defer sess.mu.Unlock()

	score, ok := s.scoreGuess(w, sess, req.Guess)
	if !ok {
		_ = s.cb.Save(r.Context(), sess.ID, sess)
		return
	}
	res := cbGuessRes{
		Score:   score,
		Guesses: sess.Engine.Guesses(),
		Seconds: int(sess.Engine.Elapsed().Seconds()),
		State:   "playing",
	}
	if score.Solved() {
		res.State = string(stats.OutcomeWon)
		sess.done = true
		_ = s.cb.Delete(r.Context(), sess.ID)
		s.finished(r.Context(), stats.GameCodeBreaker, sess.ID, sess.PlayerID, stats.OutcomeWon, res.Guesses)
	} else {
		_ = s.cb.Save(r.Context(), sess.ID, sess)
	}
	_ = json.NewEncoder(w).Encode(res)
}

type cbGiveUpReq struct {
	GameID string `json:"gameId"`
}

func (s *Server) handleCBGiveUp(w http.ResponseWriter, r *http.Request) {
	var req cbGiveUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.cbSessionFor(w, r, req.GameID, false)
	if !ok {
		return
	}

	if !sess.acquire() {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	defer sess.mu.Unlock()

	sess.done = true
	_ = s.cb.Delete(r.Context(), sess.ID)
	s.finished(r.Context(), stats.GameCodeBreaker, sess.ID, sess.PlayerID, stats.OutcomeAbandoned, sess.Engine.Guesses())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"answer":  sess.Engine.Secret().String(),
		"guesses": sess.Engine.Guesses(),
	})
}
