// internal/daily/daily.go
//
// Deterministic daily 1A2B challenge.
// Everyone playing on the same UTC date gets the same secret: the date is
// hashed with a server salt and the digest seeds the game's random source.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/minigames/internal/game/codebreaker"
	"github.com/robalobadob/minigames/internal/random"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns HMAC-SHA256(salt, DateKey(t)) truncated to 64 bits.
func Seed(t time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// NewGame starts the challenge for t's date.
func NewGame(t time.Time, salt string) *codebreaker.Engine {
	return codebreaker.NewWithSource(random.NewSeeded(Seed(t, salt)))
}
