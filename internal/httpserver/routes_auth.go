// internal/httpserver/routes_auth.go
//
// Account routes:
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /games/mine (require auth)
//   - GET  /leaderboard/{game}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/auth"
	"github.com/robalobadob/minigames/internal/stats"
)

// credentials is the signup/login payload.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) mountAuthRoutes(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/leaderboard/{game}", s.handleLeaderboard)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(playerFrom(r))
		})
		r.Get("/stats/me", s.handleMyStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

// handleSignup creates a player, signs a token, and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	name := auth.NormalizeUsername(body.Username)
	if err := auth.ValidateSignup(name, body.Password); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	p, err := s.db.CreatePlayer(r.Context(), uuid.NewString(), name, hash)
	if errors.Is(err, stats.ErrUsernameTaken) {
		writeErr(w, http.StatusConflict, "username_taken")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create player")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	if !s.issueToken(w, p.ID, p.Username) {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "username": p.Username, "createdAt": p.CreatedAt})
}

// handleLogin checks the password and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.db.PlayerByName(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !auth.CheckPassword(p.PasswordHash, body.Password) {
		writeErr(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.issueToken(w, p.ID, p.Username) {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "username": p.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c := s.cookie(s.cfg.CookieName, "", time.Time{})
	c.MaxAge = -1
	http.SetCookie(w, c)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// issueToken signs a token, sets the auth cookie, and echoes the token in
// X-Auth-Token for non-browser clients.
func (s *Server) issueToken(w http.ResponseWriter, id, username string) bool {
	tok, exp, err := s.signer.Sign(id, username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	http.SetCookie(w, s.cookie(s.cfg.CookieName, tok, exp))
	w.Header().Set("X-Auth-Token", tok)
	return true
}

// bearerOrCookie extracts a token from the Authorization header or the auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me := playerFrom(r)
	st, err := s.db.PlayerStats(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": me.ID, "username": me.Username, "games": st})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.RecentGames(r.Context(), playerFrom(r).ID, 50)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	if game != stats.GameTicTacToe && game != stats.GameCodeBreaker {
		writeErr(w, http.StatusNotFound, "unknown_game")
		return
	}
	rows, err := s.db.Leaderboard(r.Context(), game, 20)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"game": game, "top": rows})
}
