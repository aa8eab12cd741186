// internal/game/tictactoe/opponent.go
//
// Bot move selection.
//
// Each difficulty is a policy: for round 1, round 2 and rounds 3+ it holds an
// ordered list of heuristics. The first heuristic that finds a move wins; if
// none does, the bot plays a uniformly random empty cell.
//
//   easy:   r1 [centerOrCorner]        r2 []                      r3+ []
//   normal: r1 easy                    r2 [block, adjacentPair]   r3+ easy
//   hard:   r1 normal                  r2 normal                  r3+ [complete, block] + normal
//
// Heuristics only look one move ahead: complete a line, or block one.

package tictactoe

import "github.com/robalobadob/minigames/internal/random"

// heuristic proposes a cell index, or ok=false when it has nothing to offer.
type heuristic func(b *Board, rng *random.Source) (cell int, ok bool)

type policy struct {
	round1 []heuristic
	round2 []heuristic
	later  []heuristic
}

var (
	easyPolicy = policy{
		round1: []heuristic{centerOrCorner},
	}
	normalPolicy = policy{
		round1: easyPolicy.round1,
		round2: chain([]heuristic{block, adjacentPair}, easyPolicy.round2),
		later:  easyPolicy.later,
	}
	hardPolicy = policy{
		round1: normalPolicy.round1,
		round2: normalPolicy.round2,
		later:  chain([]heuristic{complete, block}, normalPolicy.later),
	}
)

func policyFor(d Difficulty) policy {
	switch d {
	case Easy:
		return easyPolicy
	case Normal:
		return normalPolicy
	default:
		return hardPolicy
	}
}

// chain returns a new list: own heuristics first, then the fallback tier's.
func chain(own, fallback []heuristic) []heuristic {
	out := make([]heuristic, 0, len(own)+len(fallback))
	out = append(out, own...)
	return append(out, fallback...)
}

// move picks the bot's cell for round.
func (p policy) move(b *Board, round int, rng *random.Source) (int, error) {
	var list []heuristic
	switch round {
	case 1:
		list = p.round1
	case 2:
		list = p.round2
	default:
		list = p.later
	}
	for _, h := range list {
		if i, ok := h(b, rng); ok {
			return i, nil
		}
	}
	return randomEmpty(b, rng)
}

// randomEmpty picks uniformly among empty cells.
func randomEmpty(b *Board, rng *random.Source) (int, error) {
	free := make([]int, 0, cellCount)
	for i, m := range b {
		if m == Empty {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return 0, ErrNoMovesAvailable
	}
	return random.Element(rng, free), nil
}

// centerOrCorner takes the centre, or the top-left corner when the human holds the centre.
func centerOrCorner(b *Board, _ *random.Source) (int, bool) {
	if b[center] == Human {
		return corner, b[corner] == Empty
	}
	return center, b[center] == Empty
}

// complete finishes a line holding two bot marks.
func complete(b *Board, rng *random.Source) (int, bool) {
	return thirdCell(b, rng, Bot)
}

// block takes the open cell of a line holding two human marks.
func block(b *Board, rng *random.Source) (int, bool) {
	return thirdCell(b, rng, Human)
}

// thirdCell finds a line with two of m and one empty cell, scanning the
// win-lines in a fresh random order.
func thirdCell(b *Board, rng *random.Source, m Mark) (int, bool) {
	lines := winLines
	random.Shuffle(rng, lines[:])
	for _, l := range lines {
		count, open := 0, -1
		for _, i := range l {
			switch b[i] {
			case m:
				count++
			case Empty:
				open = i
			}
		}
		if count == 2 && open >= 0 {
			return open, true
		}
	}
	return 0, false
}

// Cell pairs that line up with the bot's first mark.
var (
	pairsFromCorner = [][2]int{{1, 2}, {3, 6}, {4, 8}}
	pairsFromCenter = [][2]int{{0, 8}, {1, 7}, {2, 6}, {3, 5}}
)

// adjacentPair extends the bot's round-1 mark toward a line whose other two
// cells are both empty. From the corner it takes the far cell of the pair;
// from the centre it takes either cell with even odds.
func adjacentPair(b *Board, rng *random.Source) (int, bool) {
	fromCorner := b[corner] == Bot
	src := pairsFromCenter
	if fromCorner {
		src = pairsFromCorner
	} else if b[center] != Bot {
		return 0, false
	}

	pairs := make([][2]int, len(src))
	copy(pairs, src)
	random.Shuffle(rng, pairs)
	for _, p := range pairs {
		if b[p[0]] != Empty || b[p[1]] != Empty {
			continue
		}
		if !fromCorner && rng.Chance(50) {
			return p[0], true
		}
		return p[1], true
	}
	return 0, false
}
