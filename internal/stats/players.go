package stats

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrUsernameTaken is returned by CreatePlayer for a duplicate name (case-insensitive).
var ErrUsernameTaken = errors.New("username taken")

// Player matches the players table.
type Player struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// CreatePlayer inserts a player. The caller hashes the password.
func (s *Store) CreatePlayer(ctx context.Context, id, username, passwordHash string) (*Player, error) {
	p := &Player{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Username, p.PasswordHash, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return p, nil
}

// PlayerByName looks a player up case-insensitively.
func (s *Store) PlayerByName(ctx context.Context, username string) (*Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM players WHERE username=?`, username))
}

// PlayerByID looks a player up by id.
func (s *Store) PlayerByID(ctx context.Context, id string) (*Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM players WHERE id=?`, id))
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var (
		p       Player
		created string
	)
	if err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &p, nil
}
