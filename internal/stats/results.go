package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Game names as stored.
const (
	GameTicTacToe   = "tictactoe"
	GameCodeBreaker = "1a2b"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Outcome of a finished game from the player's side.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeTie       Outcome = "tie"
	OutcomeAbandoned Outcome = "abandoned"
)

// GameStats is one player's record in one game.
type GameStats struct {
	Game        string `json:"game"`
	Played      int    `json:"played"`
	Wins        int    `json:"wins"`
	Ties        int    `json:"ties"`
	Streak      int    `json:"streak"`
	BestStreak  int    `json:"bestStreak"`
	BestGuesses int    `json:"bestGuesses,omitempty"` // 1A2B only
}

// RecordResult folds one finished game into the player's stats.
// A win extends the streak, a loss or abandon resets it, a tie leaves it.
// guesses is only used for 1A2B wins (fewest guesses is kept).
func (s *Store) RecordResult(ctx context.Context, playerID, game string, o Outcome, guesses int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_stats (player_id, game) VALUES (?, ?)`, playerID, game); err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}

	var (
		st   GameStats
		best sql.NullInt64
	)
	if err := tx.QueryRowContext(ctx,
		`SELECT played, wins, ties, streak, best_streak, best_guesses FROM game_stats WHERE player_id=? AND game=?`,
		playerID, game,
	).Scan(&st.Played, &st.Wins, &st.Ties, &st.Streak, &st.BestStreak, &best); err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	st.Played++
	switch o {
	case OutcomeWon:
		st.Wins++
		st.Streak++
		if st.Streak > st.BestStreak {
			st.BestStreak = st.Streak
		}
		if guesses > 0 && (!best.Valid || int64(guesses) < best.Int64) {
			best = sql.NullInt64{Int64: int64(guesses), Valid: true}
		}
	case OutcomeTie:
		st.Ties++
	default:
		st.Streak = 0
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE game_stats SET played=?, wins=?, ties=?, streak=?, best_streak=?, best_guesses=? WHERE player_id=? AND game=?`,
		st.Played, st.Wins, st.Ties, st.Streak, st.BestStreak, best, playerID, game); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	return tx.Commit()
}

// PlayerStats returns every game record for the player.
func (s *Store) PlayerStats(ctx context.Context, playerID string) ([]GameStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, played, wins, ties, streak, best_streak, COALESCE(best_guesses, 0)
		 FROM game_stats WHERE player_id=? ORDER BY game`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameStats{}
	for rows.Next() {
		var st GameStats
		if err := rows.Scan(&st.Game, &st.Played, &st.Wins, &st.Ties, &st.Streak, &st.BestStreak, &st.BestGuesses); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GameRow is one history entry.
type GameRow struct {
	ID         string `json:"id"`
	Game       string `json:"game"`
	Difficulty string `json:"difficulty,omitempty"`
	Status     string `json:"status"`
	Moves      int    `json:"moves"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// StartGame records a new game owned by playerID.
func (s *Store) StartGame(ctx context.Context, id, playerID, game, difficulty string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, player_id, game, difficulty, status, started_at) VALUES (?,?,?,?,?,?)`,
		id, playerID, game, difficulty, "playing", time.Now().UTC().Format(timeLayout))
	return err
}

// FinishGame stores the final status and move count.
func (s *Store) FinishGame(ctx context.Context, id string, o Outcome, moves int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET status=?, moves=?, finished_at=? WHERE id=?`,
		string(o), moves, time.Now().UTC().Format(timeLayout), id)
	return err
}

// RecentGames lists the player's latest games, newest first.
func (s *Store) RecentGames(ctx context.Context, playerID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game, difficulty, status, moves, started_at, COALESCE(finished_at, '')
		 FROM games WHERE player_id=? ORDER BY started_at DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Game, &g.Difficulty, &g.Status, &g.Moves, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// LBRow is one leaderboard line.
type LBRow struct {
	Username   string `json:"username"`
	Wins       int    `json:"wins"`
	Played     int    `json:"played"`
	BestStreak int    `json:"bestStreak"`
}

// Leaderboard ranks players in game by wins, then best streak, then fewest games.
func (s *Store) Leaderboard(ctx context.Context, game string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.username, g.wins, g.played, g.best_streak
		 FROM game_stats g JOIN players p ON p.id = g.player_id
		 WHERE g.game=?
		 ORDER BY g.wins DESC, g.best_streak DESC, g.played ASC
		 LIMIT ?`, game, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.Wins, &r.Played, &r.BestStreak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
