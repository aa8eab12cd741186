package stats

import "context"

// DailyResult is one player's solved daily challenge.
// PlayerID is the owner key and is never serialized; Name is what others see.
type DailyResult struct {
	PlayerID string `json:"-"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Guesses  int    `json:"guesses"`
	Seconds  int    `json:"seconds"`
}

// DailyAlreadyPlayed reports whether playerID has a result for date.
func (s *Store) DailyAlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`, playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertDailyResult stores r; a second result for the same player and date is ignored.
func (s *Store) InsertDailyResult(ctx context.Context, r DailyResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results (player_id, name, date, guesses, seconds) VALUES (?,?,?,?,?)`,
		r.PlayerID, r.Name, r.Date, r.Guesses, r.Seconds)
	return err
}

// DailyLeaderboard ranks date's results by guesses, then time, then submission order.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]DailyResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, name, date, guesses, seconds
		 FROM daily_results WHERE date=?
		 ORDER BY guesses ASC, seconds ASC, created_at ASC
		 LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyResult{}
	for rows.Next() {
		var r DailyResult
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.Date, &r.Guesses, &r.Seconds); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
