// internal/game/tictactoe/engine.go
//
// Engine for a single tic-tac-toe session against the bot.
// Responsibilities:
//   - Validate and apply human moves.
//   - Ask the configured opponent policy for the bot move and apply it.
//   - Detect wins and ties.
//
// Rules:
//   - The human moves first; turns alternate.
//   - round starts at 1 and advances after each bot move.
//   - No win is reported before round 3: fewer than five marks cannot
//     contain a completed line for either side.
//   - Rejected moves never mutate state.

package tictactoe

import "github.com/robalobadob/minigames/internal/random"

// Engine holds the state of one game.
type Engine struct {
	board      Board
	round      int
	empty      int
	botToMove  bool
	winner     Mark
	difficulty Difficulty
	policy     policy
	rng        *random.Source
}

// New starts a game against the given difficulty.
// Values other than Easy and Normal select Hard.
func New(d Difficulty) *Engine {
	return NewWithSource(d, random.New())
}

// NewWithSource is New with an explicit random stream for the opponent.
func NewWithSource(d Difficulty, src *random.Source) *Engine {
	d = d.normalize()
	return &Engine{
		round:      1,
		empty:      cellCount,
		difficulty: d,
		policy:     policyFor(d),
		rng:        src,
	}
}

// InBounds reports whether 1-indexed row and column lie on the board.
func InBounds(row, col int) bool {
	return row >= 1 && row <= Side && col >= 1 && col <= Side
}

// Occupied reports whether the cell holds a mark.
// row and col must be in bounds.
func (e *Engine) Occupied(row, col int) bool {
	return e.board[index(row, col)] != Empty
}

// PlaceHuman marks the cell for the human and reports whether it won.
func (e *Engine) PlaceHuman(row, col int) (bool, error) {
	switch {
	case e.Finished():
		return false, ErrGameOver
	case !InBounds(row, col):
		return false, ErrOutOfBounds
	case e.botToMove:
		return false, ErrOutOfTurn
	case e.Occupied(row, col):
		return false, ErrOccupied
	}

	e.board[index(row, col)] = Human
	e.empty--
	e.botToMove = true
	return e.settle(Human, e.round), nil
}

// PlaceBot lets the opponent move and reports where it played and whether it won.
func (e *Engine) PlaceBot() (row, col int, won bool, err error) {
	switch {
	case e.Finished():
		return 0, 0, false, ErrGameOver
	case !e.botToMove:
		return 0, 0, false, ErrOutOfTurn
	}

	i, err := e.policy.move(&e.board, e.round, e.rng)
	if err != nil {
		return 0, 0, false, err
	}
	e.board[i] = Bot
	e.empty--
	e.botToMove = false

	played := e.round
	e.round++
	row, col = coords(i)
	return row, col, e.settle(Bot, played), nil
}

// settle records a win for m when round allows one.
func (e *Engine) settle(m Mark, round int) bool {
	if round < 3 || !hasWin(&e.board, m) {
		return false
	}
	e.winner = m
	return true
}

// IsTie reports a full board with no winner.
func (e *Engine) IsTie() bool {
	return e.empty == 0 && e.winner == Empty
}

// Finished reports whether the game has been won or tied.
func (e *Engine) Finished() bool {
	return e.winner != Empty || e.empty == 0
}

// Board returns a copy of the grid.
func (e *Engine) Board() Board { return e.board }

// Round returns the current turn counter.
func (e *Engine) Round() int { return e.round }

// EmptyCells returns the number of unmarked cells.
func (e *Engine) EmptyCells() int { return e.empty }

// Difficulty returns the opponent tier in use.
func (e *Engine) Difficulty() Difficulty { return e.difficulty }

// Winner returns Human or Bot once a win was signaled, else Empty.
func (e *Engine) Winner() Mark { return e.winner }

// hasWin scans every win-line for three of m.
func hasWin(b *Board, m Mark) bool {
	for _, l := range winLines {
		if b[l[0]] == m && b[l[1]] == m && b[l[2]] == m {
			return true
		}
	}
	return false
}
