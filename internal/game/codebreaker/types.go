// internal/game/codebreaker/types.go
//
// Core type definitions for the 1A2B code-breaking game.
// Defines:
//   - Guess: a fixed-length sequence of digits.
//   - Score: A (right digit, right place) and B (right digit, wrong place).
//   - Sentinel errors returned by the engine.

package codebreaker

import "errors"

// AnswerLength is the number of digits in the secret. Fixed by design.
const AnswerLength = 4

// Guess is one candidate answer, most significant digit first.
type Guess [AnswerLength]int

// Score is the evaluation of a guess.
type Score struct {
	A int `json:"a"` // correct digit in the correct position
	B int `json:"b"` // correct digit in the wrong position
}

// Solved reports whether the guess matched the secret exactly.
func (s Score) Solved() bool { return s.A == AnswerLength }

var (
	// ErrInvalidGuess is returned for a guess that repeats a digit.
	// The secret never repeats digits, so such a guess cannot be scored.
	ErrInvalidGuess = errors.New("codebreaker: guess repeats a digit")

	// ErrMalformedGuess is returned for input that is not AnswerLength digits 0-9.
	ErrMalformedGuess = errors.New("codebreaker: guess must be 4 digits")
)
