package httpserver

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/minigames/internal/daily"
)

func TestDailyChallenge(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	code, body := env.do(t, c, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["played"])
	id := body["gameId"].(string)
	require.Equal(t, daily.DateKey(time.Now()), body["date"])

	_, again := env.do(t, c, http.MethodPost, "/daily/new", nil)
	require.Equal(t, id, again["gameId"], "the open session is reused")

	// Daily sessions are not reachable through the free-play routes.
	code, _ = env.do(t, c, http.MethodPost, "/1a2b/guess", map[string]any{"gameId": id, "guess": "0123"})
	require.Equal(t, http.StatusNotFound, code)

	secret := env.secretOf(t, id)
	require.Equal(t, daily.NewGame(time.Now(), "salt").Secret().String(), secret)

	code, body = env.do(t, c, http.MethodPost, "/daily/guess", map[string]any{"gameId": id, "guess": secret})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "won", body["state"])

	_, body = env.do(t, c, http.MethodPost, "/daily/new", nil)
	require.Equal(t, true, body["played"])

	code, body = env.do(t, c, http.MethodGet, "/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, code)
	top := body["top"].([]any)
	require.Len(t, top, 1)
	require.EqualValues(t, 1, top[0].(map[string]any)["guesses"])
}

func TestDailySameSecretForEveryone(t *testing.T) {
	env := newTestEnv(t)

	_, a := env.do(t, env.client(t), http.MethodPost, "/daily/new", nil)
	_, b := env.do(t, env.client(t), http.MethodPost, "/daily/new", nil)
	require.NotEqual(t, a["gameId"], b["gameId"])
	require.Equal(t, env.secretOf(t, a["gameId"].(string)), env.secretOf(t, b["gameId"].(string)))
}

func TestDailyLeaderboardHidesOwnerKeys(t *testing.T) {
	env := newTestEnv(t)

	guest := env.client(t)
	_, body := env.do(t, guest, http.MethodPost, "/daily/new", nil)
	id := body["gameId"].(string)
	_, body = env.do(t, guest, http.MethodPost, "/daily/guess", map[string]any{"gameId": id, "guess": env.secretOf(t, id)})
	require.Equal(t, "won", body["state"])

	player := env.client(t)
	playerID := env.signup(t, player, "daily_dan")
	_, body = env.do(t, player, http.MethodPost, "/daily/new", nil)
	id = body["gameId"].(string)
	_, body = env.do(t, player, http.MethodPost, "/daily/guess", map[string]any{"gameId": id, "guess": env.secretOf(t, id)})
	require.Equal(t, "won", body["state"])

	u, err := url.Parse(env.ts.URL)
	require.NoError(t, err)
	var anon string
	for _, ck := range guest.Jar.Cookies(u) {
		if ck.Name == anonCookieName {
			anon = ck.Value
		}
	}
	require.NotEmpty(t, anon)

	res, err := http.Get(env.ts.URL + "/daily/leaderboard")
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.NotContains(t, string(raw), anon)
	require.NotContains(t, string(raw), playerID)
	require.Contains(t, string(raw), `"name":"daily_dan"`)
	require.Regexp(t, `"name":"guest-[0-9a-f]{8}"`, string(raw))
}

func TestDailyNewReportsDatabaseErrors(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.srv.db.Close())

	code, body := env.do(t, env.client(t), http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "db_error", body["error"])
}
