package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minigames/internal/game/codebreaker"
	"github.com/robalobadob/minigames/internal/game/tictactoe"
)

var (
	difficulty int

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
	}

	playTicTacToeCmd = &cobra.Command{
		Use:     "tictactoe",
		Aliases: []string{"ttt"},
		Short:   "Play tic-tac-toe against the bot (you are O and move first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return playTicTacToe(cmd.InOrStdin(), cmd.OutOrStdout(), tictactoe.New(tictactoe.Difficulty(difficulty)))
		},
	}

	playCodeBreakerCmd = &cobra.Command{
		Use:   "1a2b",
		Short: "Guess the 4-digit number with no repeated digits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return playCodeBreaker(cmd.InOrStdin(), cmd.OutOrStdout(), codebreaker.New())
		},
	}
)

func init() {
	playTicTacToeCmd.Flags().IntVarP(&difficulty, "difficulty", "d", 3, "1 easy, 2 normal, 3 hard")
	playCmd.AddCommand(playTicTacToeCmd, playCodeBreakerCmd)
}

// drawBoard prints the grid with 1-indexed row and column labels.
func drawBoard(w io.Writer, b tictactoe.Board) {
	fmt.Fprintln(w, "    1   2   3")
	for r := 1; r <= tictactoe.Side; r++ {
		cells := make([]string, tictactoe.Side)
		for c := range cells {
			cells[c] = b.At(r, c+1).String()
		}
		fmt.Fprintf(w, "%d   %s\n", r, strings.Join(cells, " | "))
		if r < tictactoe.Side {
			fmt.Fprintln(w, "   ---+---+---")
		}
	}
}

func playTicTacToe(in io.Reader, out io.Writer, e *tictactoe.Engine) error {
	fmt.Fprintf(out, "Tic-tac-toe (%s). Enter moves as \"row col\".\n", e.Difficulty())
	sc := bufio.NewScanner(in)
	for {
		drawBoard(out, e.Board())
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		var row, col int
		if _, err := fmt.Sscan(sc.Text(), &row, &col); err != nil {
			fmt.Fprintln(out, "enter two numbers, e.g. 2 2")
			continue
		}

		won, err := e.PlaceHuman(row, col)
		switch {
		case errors.Is(err, tictactoe.ErrOutOfBounds):
			fmt.Fprintln(out, "rows and columns go from 1 to 3")
			continue
		case errors.Is(err, tictactoe.ErrOccupied):
			fmt.Fprintln(out, "that cell is taken")
			continue
		case err != nil:
			return err
		}
		if won {
			drawBoard(out, e.Board())
			fmt.Fprintln(out, "You win!")
			return nil
		}
		if e.IsTie() {
			drawBoard(out, e.Board())
			fmt.Fprintln(out, "Tie.")
			return nil
		}

		r, c, botWon, err := e.PlaceBot()
		if err != nil {
			return err
		}
		log.Debug().Int("row", r).Int("col", c).Int("round", e.Round()).Msg("bot move")
		fmt.Fprintf(out, "Bot plays %d %d\n", r, c)
		if botWon {
			drawBoard(out, e.Board())
			fmt.Fprintln(out, "Bot wins.")
			return nil
		}
		if e.IsTie() {
			drawBoard(out, e.Board())
			fmt.Fprintln(out, "Tie.")
			return nil
		}
	}
}

func playCodeBreaker(in io.Reader, out io.Writer, e *codebreaker.Engine) error {
	fmt.Fprintf(out, "Guess the %d-digit number (no repeated digits). Type \"giveup\" to quit.\n", codebreaker.AnswerLength)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "giveup" {
			fmt.Fprintf(out, "The answer was %s.\n", e.Secret())
			return nil
		}
		g, err := codebreaker.ParseGuess(line)
		if err != nil {
			fmt.Fprintf(out, "enter %d digits\n", codebreaker.AnswerLength)
			continue
		}
		score, err := e.Score(g)
		if errors.Is(err, codebreaker.ErrInvalidGuess) {
			fmt.Fprintln(out, "digits must not repeat (counted as a guess)")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%dA%dB\n", score.A, score.B)
		if score.Solved() {
			fmt.Fprintf(out, "Solved in %d guesses (%s).\n", e.Guesses(), e.Elapsed())
			return nil
		}
	}
}
