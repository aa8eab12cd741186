// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily 1A2B challenge.
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same secret on a given UTC date. Each player or guest
// can finish it once per day (enforced by the DB).

package httpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/daily"
	"github.com/robalobadob/minigames/internal/stats"
)

// dailyServer maps owner|date to the active session ID.
type dailyServer struct {
	srv    *Server
	mu     sync.Mutex
	active map[string]dailyRef
}

type dailyRef struct {
	gameID  string
	started time.Time
}

func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{srv: s, active: make(map[string]dailyRef)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Post("/guess", s.daily.handleGuess)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// forget drops references older than cutoff; the sessions themselves are
// swept from the store separately.
func (d *dailyServer) forget(cutoff time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, ref := range d.active {
		if ref.started.Before(cutoff) {
			delete(d.active, k)
		}
	}
}

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses today's session.
// If the caller already has a result for today, Played is true and no session is made.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	owner := s.owner(w, r)
	now := s.now()
	date := daily.DateKey(now)

	played, err := s.db.DailyAlreadyPlayed(r.Context(), owner, date)
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("daily played check")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := owner + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if ref, ok := d.active[key]; ok {
		if _, err := s.cb.Get(r.Context(), ref.gameID); err == nil {
			_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: ref.gameID, Date: date})
			return
		}
	}

	sess := &cbSession{
		ID:     uuid.NewString(),
		Owner:  owner,
		Engine: daily.NewGame(now, s.cfg.DailySalt),
		Daily:  date,
	}
	if p := playerFrom(r); p != nil {
		sess.PlayerID = p.ID
	}
	if err := s.cb.Save(r.Context(), sess.ID, sess); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.active[key] = dailyRef{gameID: sess.ID, started: now}
	s.started(r.Context(), "daily", sess.ID, "", "")

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date})
}

// handleGuess scores a guess for today's session and stores the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	var req cbGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.cbSessionFor(w, r, req.GameID, true)
	if !ok {
		return
	}

	if !sess.acquire() {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	defer sess.mu.Unlock()

	if sess.Daily != daily.DateKey(s.now()) {
		sess.done = true
		_ = s.cb.Delete(r.Context(), sess.ID)
		writeErr(w, http.StatusConflict, "expired")
		return
	}

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
	if !score.Solved() {
		_ = s.cb.Save(r.Context(), sess.ID, sess)
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	res.State = string(stats.OutcomeWon)
	sess.done = true
	_ = s.cb.Delete(r.Context(), sess.ID)
	if err := s.db.InsertDailyResult(r.Context(), stats.DailyResult{
		PlayerID: sess.Owner,
		Name:     publicName(r, sess.Owner),
		Date:     sess.Daily,
		Guesses:  res.Guesses,
		Seconds:  res.Seconds,
	}); err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.finished(r.Context(), "daily", sess.ID, "", stats.OutcomeWon, res.Guesses)
	_ = json.NewEncoder(w).Encode(res)
}

// publicName is the leaderboard label: the username for players, otherwise
// a short hash of the anonymous owner key. The owner key itself grants
// access to the guest's sessions and is never published.
func publicName(r *http.Request, owner string) string {
	if p := playerFrom(r); p != nil && p.ID == owner {
		return p.Username
	}
	sum := sha256.Sum256([]byte(owner))
	return "guest-" + hex.EncodeToString(sum[:4])
}

type dailyLBRes struct {
	Date string              `json:"date"`
	Top  []stats.DailyResult `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.srv.db.DailyLeaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(dailyLBRes{Date: date, Top: rows})
}
