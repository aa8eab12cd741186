// internal/httpserver/server.go
//
// HTTP server wiring for the minigames backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints (optional auth): /tictactoe/*, /1a2b/*, /daily/*.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine, /leaderboard/{game}.
//   - Idle session eviction.
//
// Notes:
//   - Optional auth decorates requests with the player when a valid token is
//     present; guests play under an anonymous cookie and get no stats.
//   - A session is only reachable by the player (or guest) that started it.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minigames/internal/auth"
	"github.com/robalobadob/minigames/internal/config"
	"github.com/robalobadob/minigames/internal/stats"
	"github.com/robalobadob/minigames/internal/store"
)

// Server bundles router, session stores, and the stats database.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	db     *stats.Store
	signer *auth.Signer
	ttt    store.Store[*tttSession]
	cb     store.Store[*cbSession]
	daily  *dailyServer
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, db *stats.Store) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		db:     db,
		signer: auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL()),
		ttt:    store.NewMemoryStore[*tttSession](),
		cb:     store.NewMemoryStore[*cbSession](),
		now:    time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"minigames","games":["tictactoe","1a2b","daily"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// Games: optional auth, guests can play
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth)
			s.mountTicTacToe(r)
			s.mountCodeBreaker(r)
			s.mountDaily(r)
		})

		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.sweepLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweepLoop evicts sessions idle longer than the configured TTL.
func (s *Server) sweepLoop(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Server) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.SessionTTL)
	n := s.ttt.Sweep(ctx, cutoff) + s.cb.Sweep(ctx, cutoff)
	s.daily.forget(cutoff)
	if n > 0 {
		log.Debug().Int("sessions", n).Msg("evicted idle sessions")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- identity ----------------------------------

// ctxPlayerKey is the context key type for the signed-in player.
type ctxPlayerKey struct{}

// playerFrom returns the signed-in player, or nil for guests.
func playerFrom(r *http.Request) *auth.Claims {
	c, _ := r.Context().Value(ctxPlayerKey{}).(*auth.Claims)
	return c
}

// withOptionalAuth decorates requests with the player if a valid token is present.
// It never 401s.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if c, err := s.signer.Parse(tok); err == nil {
				if _, err := s.db.PlayerByID(r.Context(), c.ID); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, &c))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid token for a player that still exists.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		c, err := s.signer.Parse(tok)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if _, err := s.db.PlayerByID(r.Context(), c.ID); err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, &c)))
	})
}

const anonCookieName = "minigames_anon"

// owner identifies who may drive a session: the player ID when signed in,
// otherwise a stable anonymous cookie (set on first use).
func (s *Server) owner(w http.ResponseWriter, r *http.Request) string {
	if p := playerFrom(r); p != nil {
		return p.ID
	}
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(anonCookieName, id, s.now().Add(180*24*time.Hour)))
	return id
}

// cookie builds an HttpOnly cookie; Secure + SameSite=None in production.
func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	}
}

// ------------------------------- small util --------------------------------

// writeErr writes {"error":code} with status.
func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q}`+"\n", code)
}
