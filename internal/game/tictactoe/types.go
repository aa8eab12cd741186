// internal/game/tictactoe/types.go
//
// Core type definitions for the tic-tac-toe engine.
// Defines:
//   - Mark: per-cell state (empty, human "O", bot "X").
//   - Board: 3x3 grid stored row-major, 0-indexed.
//   - Difficulty: opponent tier selector.
//   - Sentinel errors for rejected moves.

package tictactoe

import "errors"

// Side is the board width and height. Fixed by design.
const Side = 3

const (
	cellCount = Side * Side
	corner    = 0             // top-left
	center    = cellCount / 2 // middle cell
)

// Mark is the state of one cell.
type Mark uint8

const (
	Empty Mark = iota
	Human
	Bot
)

// String renders a mark the way the board is drawn: "O" for the human, "X" for the bot.
func (m Mark) String() string {
	switch m {
	case Human:
		return "O"
	case Bot:
		return "X"
	default:
		return " "
	}
}

// Board is the 3x3 grid, row-major.
type Board [cellCount]Mark

// At returns the mark at 1-indexed row and column.
func (b Board) At(row, col int) Mark { return b[index(row, col)] }

// Difficulty selects the opponent tier.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Normal
	Hard
)

// normalize maps any value other than Easy or Normal to Hard.
func (d Difficulty) normalize() Difficulty {
	switch d {
	case Easy, Normal:
		return d
	default:
		return Hard
	}
}

// String returns the lowercase tier name.
func (d Difficulty) String() string {
	switch d.normalize() {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	default:
		return "hard"
	}
}

// winLines lists the 8 index triples that win on a 3x3 board.
// Treated as constant: callers that reorder it work on a copy.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

var (
	ErrOutOfBounds      = errors.New("tictactoe: out of bounds")
	ErrOccupied         = errors.New("tictactoe: cell occupied")
	ErrOutOfTurn        = errors.New("tictactoe: out of turn")
	ErrGameOver         = errors.New("tictactoe: game over")
	ErrNoMovesAvailable = errors.New("tictactoe: no moves available")
)

// index converts 1-indexed row/column into a board index.
func index(row, col int) int { return (row-1)*Side + col - 1 }

// coords converts a board index into 1-indexed row/column.
func coords(i int) (row, col int) { return i/Side + 1, i%Side + 1 }
