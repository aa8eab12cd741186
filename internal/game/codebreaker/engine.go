// internal/game/codebreaker/engine.go
//
// Engine for a single 1A2B session.
// Responsibilities:
//   - Generate a secret of AnswerLength distinct digits.
//   - Score guesses as (A, B).
//   - Track attempts and elapsed play time.
//
// Notes:
//   - The engine is immutable apart from the attempt counter.
//   - Every call to Score counts as an attempt, including rejected guesses.

package codebreaker

import (
	"time"

	"github.com/robalobadob/minigames/internal/random"
)

// Engine holds the state of one code-breaking game.
type Engine struct {
	secret  Guess
	present [10]bool // digit -> in secret
	guesses int
	start   time.Time
	now     func() time.Time
}

// New starts a game with a fresh random secret.
func New() *Engine {
	return NewWithSource(random.New())
}

// NewWithSource starts a game whose secret is drawn from src.
// Digits 0-9 are shuffled and the first AnswerLength become the secret.
func NewWithSource(src *random.Source) *Engine {
	digits := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	random.Shuffle(src, digits)

	e := &Engine{now: time.Now}
	for i := range e.secret {
		e.secret[i] = digits[i]
		e.present[digits[i]] = true
	}
	e.start = e.now()
	return e
}

// ParseGuess converts exactly AnswerLength ASCII digits into a Guess.
// Leading zeros are allowed.
func ParseGuess(s string) (Guess, error) {
	var g Guess
	if len(s) != AnswerLength {
		return g, ErrMalformedGuess
	}
	for i := 0; i < AnswerLength; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return g, ErrMalformedGuess
		}
		g[i] = int(c - '0')
	}
	return g, nil
}

// Score evaluates guess against the secret.
//
// The attempt counter is incremented before anything else. A digit outside
// 0-9 yields ErrMalformedGuess and a repeated digit yields ErrInvalidGuess;
// in both cases no score is produced.
func (e *Engine) Score(guess Guess) (Score, error) {
	e.guesses++

	var (
		seen [10]bool
		s    Score
	)
	for i, d := range guess {
		if d < 0 || d > 9 {
			return Score{}, ErrMalformedGuess
		}
		if seen[d] {
			return Score{}, ErrInvalidGuess
		}
		seen[d] = true

		switch {
		case e.secret[i] == d:
			s.A++
		case e.present[d]:
			s.B++
		}
	}
	return s, nil
}

// Elapsed returns play time since the game started, floored to whole seconds.
func (e *Engine) Elapsed() time.Duration {
	return e.now().Sub(e.start).Truncate(time.Second)
}

// Guesses returns the number of Score calls so far.
func (e *Engine) Guesses() int { return e.guesses }

// Secret returns a copy of the answer (for reveal on give-up).
func (e *Engine) Secret() Guess { return e.secret }

// String renders a guess as its digits, e.g. "0123".
func (g Guess) String() string {
	b := make([]byte, AnswerLength)
	for i, d := range g {
		b[i] = byte('0' + d)
	}
	return string(b)
}
