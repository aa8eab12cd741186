package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/minigames/internal/config"
	"github.com/robalobadob/minigames/internal/stats"
)

type testEnv struct {
	srv *Server
	ts  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := stats.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "test_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "salt",
		SessionTTL:     time.Minute,
	}
	srv := New(cfg, db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts}
}

// client returns a fresh client with its own cookie jar (its own guest identity).
func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) do(t *testing.T, c *http.Client, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.do(t, env.client(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["ok"])

	code, body = env.do(t, env.client(t), http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "not_found", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	res, err := http.Get(env.ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	_, body := env.do(t, c, http.MethodPost, "/1a2b/new", nil)
	id := body["gameId"].(string)

	env.srv.now = func() time.Time { return time.Now().Add(time.Hour) }
	env.srv.sweep(context.Background())

	code, _ := env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "0123"})
	require.Equal(t, http.StatusNotFound, code)
}

// captureLog routes the global logger into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

// signup registers a player on c and returns its ID.
func (e *testEnv) signup(t *testing.T, c *http.Client, name string) string {
	t.Helper()
	code, _ := e.do(t, c, http.MethodPost, "/auth/signup", map[string]any{"username": name, "password": "hunter22"})
	require.Equal(t, http.StatusOK, code)
	_, me := e.do(t, c, http.MethodGet, "/auth/me", nil)
	return me["id"].(string)
}

// post sends body without failing the test, for use from goroutines.
func (e *testEnv) post(c *http.Client, path string, body any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	res, err := c.Post(e.ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}
