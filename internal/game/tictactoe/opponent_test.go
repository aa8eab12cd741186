package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/minigames/internal/random"
)

func botCell(t *testing.T, e *Engine) int {
	t.Helper()
	row, col, _, err := e.PlaceBot()
	require.NoError(t, err)
	return index(row, col)
}

func TestRoundOne(t *testing.T) {
	for _, d := range []Difficulty{Easy, Normal, Hard} {
		t.Run(d.String()+" human takes centre", func(t *testing.T) {
			e := New(d)
			_, err := e.PlaceHuman(2, 2)
			require.NoError(t, err)
			row, col, won, err := e.PlaceBot()
			require.NoError(t, err)
			require.False(t, won)
			require.Equal(t, [2]int{1, 1}, [2]int{row, col})
		})

		t.Run(d.String()+" human elsewhere", func(t *testing.T) {
			for _, rc := range [][2]int{{1, 1}, {1, 2}, {3, 3}, {2, 1}} {
				e := New(d)
				_, err := e.PlaceHuman(rc[0], rc[1])
				require.NoError(t, err)
				require.Equal(t, center, botCell(t, e))
			}
		})
	}
}

func TestNormalBlocksOnRoundTwo(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		e := NewWithSource(Normal, random.NewSeeded(seed))
		_, err := e.PlaceHuman(3, 3)
		require.NoError(t, err)
		require.Equal(t, center, botCell(t, e))

		_, err = e.PlaceHuman(1, 3)
		require.NoError(t, err)
		require.Equal(t, 5, botCell(t, e), "must block column 3")
	}
}

func TestNormalExtendsFromCorner(t *testing.T) {
	seen := map[int]bool{}
	for seed := uint64(0); seed < 50; seed++ {
		e := NewWithSource(Normal, random.NewSeeded(seed))
		_, err := e.PlaceHuman(2, 2)
		require.NoError(t, err)
		require.Equal(t, corner, botCell(t, e))

		_, err = e.PlaceHuman(3, 3)
		require.NoError(t, err)
		cell := botCell(t, e)
		require.Contains(t, []int{2, 6}, cell)
		seen[cell] = true
	}
	require.Len(t, seen, 2, "pair order is shuffled")
}

func TestNormalExtendsFromCenter(t *testing.T) {
	seen := map[int]bool{}
	for seed := uint64(0); seed < 80; seed++ {
		e := NewWithSource(Normal, random.NewSeeded(seed))
		_, err := e.PlaceHuman(1, 1)
		require.NoError(t, err)
		require.Equal(t, center, botCell(t, e))

		_, err = e.PlaceHuman(3, 3)
		require.NoError(t, err)
		cell := botCell(t, e)
		require.Contains(t, []int{1, 7, 2, 6, 3, 5}, cell)
		seen[cell] = true
	}
	require.Greater(t, len(seen), 2)
}

func TestHardPrefersOffence(t *testing.T) {
	// X X .
	// O O .
	// . . O
	for seed := uint64(0); seed < 30; seed++ {
		e := setup(Hard, 3, []int{3, 4, 8}, []int{0, 1}, true)
		e.rng = random.NewSeeded(seed)
		row, col, won, err := e.PlaceBot()
		require.NoError(t, err)
		require.Equal(t, [2]int{1, 3}, [2]int{row, col})
		require.True(t, won)
		require.Equal(t, Bot, e.Winner())
		require.False(t, e.IsTie())
	}
}

func TestHardBlocks(t *testing.T) {
	// O X .
	// O . X
	// . O .
	for seed := uint64(0); seed < 30; seed++ {
		e := setup(Hard, 3, []int{0, 3, 7}, []int{1, 5}, true)
		e.rng = random.NewSeeded(seed)
		require.Equal(t, 6, botCell(t, e))
	}
}

func TestHardWinningMoveCanAlsoBlock(t *testing.T) {
	// X O .
	// . X .
	// O O .
	for seed := uint64(0); seed < 30; seed++ {
		e := setup(Hard, 3, []int{1, 6, 7}, []int{0, 4}, true)
		e.rng = random.NewSeeded(seed)
		require.Equal(t, 8, botCell(t, e))
		require.Equal(t, Bot, e.Winner())
	}
}

func TestEasyAndNormalDoNotLookAheadLate(t *testing.T) {
	// With two open wins available, easy/normal still play randomly on round 3.
	seen := map[int]bool{}
	for seed := uint64(0); seed < 100; seed++ {
		e := setup(Normal, 3, []int{3, 4, 8}, []int{0, 1}, true)
		e.rng = random.NewSeeded(seed)
		seen[botCell(t, e)] = true
	}
	require.Greater(t, len(seen), 1)
}

func TestPolicyWithoutEmptyCells(t *testing.T) {
	var b Board
	for i := range b {
		b[i] = Human
	}
	for _, p := range []policy{easyPolicy, normalPolicy, hardPolicy} {
		for round := 1; round <= 5; round++ {
			_, err := p.move(&b, round, random.NewSeeded(1))
			require.ErrorIs(t, err, ErrNoMovesAvailable, "round %d", round)
		}
	}
}

func TestTierChains(t *testing.T) {
	require.Len(t, easyPolicy.round1, 1)
	require.Empty(t, easyPolicy.round2)
	require.Empty(t, easyPolicy.later)

	require.Len(t, normalPolicy.round2, 2)
	require.Empty(t, normalPolicy.later)

	require.Len(t, hardPolicy.round2, 2)
	require.Len(t, hardPolicy.later, 2)
}

func TestThirdCellLeavesTableUntouched(t *testing.T) {
	before := winLines
	b := Board{Human, Human}
	for seed := uint64(0); seed < 20; seed++ {
		cell, ok := block(&b, random.NewSeeded(seed))
		require.True(t, ok)
		require.Equal(t, 2, cell)
	}
	require.Equal(t, before, winLines)
}
