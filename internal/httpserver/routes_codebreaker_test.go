package httpserver

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/minigames/internal/store"
)

func (e *testEnv) secretOf(t *testing.T, id string) string {
	t.Helper()
	sess, err := e.srv.cb.Get(context.Background(), id)
	require.NoError(t, err)
	return sess.Engine.Secret().String()
}

// wrongGuess returns a valid guess that is not the secret.
func wrongGuess(secret string) string {
	if secret == "0123" {
		return "4567"
	}
	return "0123"
}

func TestCodeBreakerSolve(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	code, body := env.do(t, c, http.MethodPost, "/1a2b/new", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 4, body["length"])
	id := body["gameId"].(string)
	secret := env.secretOf(t, id)

	code, body = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "1123"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid_guess", body["error"])
	require.EqualValues(t, 1, body["guesses"])

	code, body = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "12a4"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "malformed_guess", body["error"])

	code, body = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": wrongGuess(secret)})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "playing", body["state"])
	require.Less(t, body["a"].(float64), 4.0)

	code, body = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": secret})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "won", body["state"])
	require.EqualValues(t, 4, body["a"])
	require.EqualValues(t, 0, body["b"])
	guesses := body["guesses"].(float64)
	require.GreaterOrEqual(t, guesses, 3.0)

	code, _ = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": secret})
	require.Equal(t, http.StatusNotFound, code)
}

func TestCodeBreakerGiveUp(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	_, body := env.do(t, c, http.MethodPost, "/1a2b/new", nil)
	id := body["gameId"].(string)
	secret := env.secretOf(t, id)

	code, body := env.do(t, c, http.MethodPost, "/1a2b/giveup", map[string]any{"gameId": id})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, secret, body["answer"])
	require.EqualValues(t, 0, body["guesses"])

	code, _ = env.do(t, c, http.MethodPost, "/1a2b/giveup", map[string]any{"gameId": id})
	require.Equal(t, http.StatusNotFound, code)
}

func TestCodeBreakerSessionIsPrivate(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, env.client(t), http.MethodPost, "/1a2b/new", nil)
	id := body["gameId"].(string)

	code, _ := env.do(t, env.client(t), http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "0123"})
	require.Equal(t, http.StatusNotFound, code)
}

func TestCodeBreakerFinishesOnceUnderContention(t *testing.T) {
	for _, tc := range []struct {
		name   string
		first  string
		second string
	}{
		{name: "giveup and guess", first: "/1a2b/giveup", second: "/1a2b/guess"},
		{name: "two winning guesses", first: "/1a2b/guess", second: "/1a2b/guess"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			c := env.client(t)
			playerID := env.signup(t, c, "racer")

			_, body := env.do(t, c, http.MethodPost, "/1a2b/new", nil)
			id := body["gameId"].(string)
			secret := env.secretOf(t, id)
			sess, err := env.srv.cb.Get(context.Background(), id)
			require.NoError(t, err)

			// Both requests load the session, then queue on its lock.
			sess.mu.Lock()
			var (
				wg    sync.WaitGroup
				codes [2]int
				errs  [2]error
			)
			for i, path := range []string{tc.first, tc.second} {
				wg.Add(1)
				go func() {
					defer wg.Done()
					codes[i], errs[i] = env.post(c, path, map[string]any{"gameId": id, "guess": secret})
				}()
			}
			time.Sleep(100 * time.Millisecond)
			sess.mu.Unlock()
			wg.Wait()

			require.NoError(t, errs[0])
			require.NoError(t, errs[1])
			require.ElementsMatch(t, []int{http.StatusOK, http.StatusNotFound}, codes[:])

			_, err = env.srv.cb.Get(context.Background(), id)
			require.ErrorIs(t, err, store.ErrNotFound)

			st, err := env.srv.db.PlayerStats(context.Background(), playerID)
			require.NoError(t, err)
			require.Len(t, st, 1)
			require.Equal(t, 1, st[0].Played)
			require.LessOrEqual(t, st[0].Wins, 1)
		})
	}
}

func TestCodeBreakerLogsRejectedGuess(t *testing.T) {
	env := newTestEnv(t)
	buf := captureLog(t)
	c := env.client(t)

	_, body := env.do(t, c, http.MethodPost, "/1a2b/new", nil)
	id := body["gameId"].(string)
	code, _ := env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "7777"})
	require.Equal(t, http.StatusBadRequest, code)

	require.Contains(t, buf.String(), `"reason":"invalid_guess"`)
	require.Contains(t, buf.String(), `"sessionId":"`+id+`"`)
}
