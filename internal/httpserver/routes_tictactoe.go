// internal/httpserver/routes_tictactoe.go
//
// Tic-tac-toe against the bot:
//   - POST /tictactoe/new  {difficulty}         → new session (1 easy, 2 normal, else hard)
//   - POST /tictactoe/move {gameId, row, col}   → human move, then the bot's reply
//
// The human plays "O" and always moves first. Rows and columns are 1-indexed.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/game/tictactoe"
	"github.com/robalobadob/minigames/internal/metrics"
	"github.com/robalobadob/minigames/internal/stats"
)

func (s *Server) mountTicTacToe(r chi.Router) {
	r.Route("/tictactoe", func(r chi.Router) {
		r.Post("/new", s.handleTTTNew)
		r.Post("/move", s.handleTTTMove)
	})
}

type tttNewReq struct {
	Difficulty int `json:"difficulty"`
}

type cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// tttState is the board snapshot returned after every request.
type tttState struct {
	GameID     string     `json:"gameId"`
	Difficulty string     `json:"difficulty"`
	Round      int        `json:"round"`
	Board      [][]string `json:"board"` // rows of "", "O", "X"
	Bot        *cell      `json:"bot,omitempty"`
	State      string     `json:"state"` // playing | won | lost | tie
}

func snapshot(id string, e *tictactoe.Engine) tttState {
	b := e.Board()
	rows := make([][]string, tictactoe.Side)
	for r := range rows {
		rows[r] = make([]string, tictactoe.Side)
		for c := range rows[r] {
			if m := b.At(r+1, c+1); m != tictactoe.Empty {
				rows[r][c] = m.String()
			}
		}
	}
	return tttState{
		GameID:     id,
		Difficulty: e.Difficulty().String(),
		Round:      e.Round(),
		Board:      rows,
		State:      "playing",
	}
}

func (s *Server) handleTTTNew(w http.ResponseWriter, r *http.Request) {
	var req tttNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess := &tttSession{
		ID:     uuid.NewString(),
		Owner:  s.owner(w, r),
		Engine: tictactoe.New(tictactoe.Difficulty(req.Difficulty)),
	}
	if p := playerFrom(r); p != nil {
		sess.PlayerID = p.ID
	}
	if err := s.ttt.Save(r.Context(), sess.ID, sess); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.started(r.Context(), stats.GameTicTacToe, sess.ID, sess.PlayerID, sess.Engine.Difficulty().String())

	_ = json.NewEncoder(w).Encode(snapshot(sess.ID, sess.Engine))
}

type tttMoveReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// moveErrors maps engine rejections to response codes.
var moveErrors = map[error]string{
	tictactoe.ErrOutOfBounds:      "out_of_bounds",
	tictactoe.ErrOccupied:         "occupied",
	tictactoe.ErrOutOfTurn:        "out_of_turn",
	tictactoe.ErrGameOver:         "game_over",
	tictactoe.ErrNoMovesAvailable: "no_moves",
}

func moveErrCode(err error) string {
	for e, code := range moveErrors {
		if errors.Is(err, e) {
			return code
		}
	}
	return "invalid_move"
}

// handleTTTMove applies the human move and, if the game goes on, the bot reply.
func (s *Server) handleTTTMove(w http.ResponseWriter, r *http.Request) {
	var req tttMoveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.ttt.Get(r.Context(), req.GameID)
	if err != nil || sess.Owner != s.owner(w, r) {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}

	if !sess.acquire() {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	defer sess.mu.Unlock()
	e := sess.Engine

	won, err := e.PlaceHuman(req.Row, req.Col)
	if err != nil {
		code := moveErrCode(err)
		metrics.Move(stats.GameTicTacToe, code)
		log.Debug().Str("game", stats.GameTicTacToe).Str("sessionId", sess.ID).Str("reason", code).Msg("move rejected")
		writeErr(w, http.StatusBadRequest, code)
		return
	}
	metrics.Move(stats.GameTicTacToe, "ok")
	sess.Moves++

	var (
		bot     *cell
		outcome stats.Outcome
	)
	switch {
	case won:
		outcome = stats.OutcomeWon
	case e.IsTie():
		outcome = stats.OutcomeTie
	default:
		row, col, botWon, err := e.PlaceBot()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, moveErrCode(err))
			return
		}
		bot = &cell{Row: row, Col: col}
		switch {
		case botWon:
			outcome = stats.OutcomeLost
		case e.IsTie():
			outcome = stats.OutcomeTie
		}
	}

	res := snapshot(sess.ID, e)
	res.Bot = bot
	if outcome != "" {
		res.State = string(outcome)
		sess.done = true
		_ = s.ttt.Delete(r.Context(), sess.ID)
		s.finished(r.Context(), stats.GameTicTacToe, sess.ID, sess.PlayerID, outcome, sess.Moves)
	} else {
		_ = s.ttt.Save(r.Context(), sess.ID, sess)
	}
	_ = json.NewEncoder(w).Encode(res)
}
