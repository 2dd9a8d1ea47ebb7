package daily

import (
	"context"
	"database/sql"
)

// Result is one player's attempt at a daily challenge.
type Result struct {
	OwnerID   string `json:"-"`
	Date      string `json:"date"`
	Guesses   int    `json:"guesses"`
	Won       bool   `json:"won"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Entry is a daily leaderboard row.
type Entry struct {
	Username  string `json:"username"` // "guest" for anonymous players
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store persists daily attempts in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner finished the challenge of date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?`,
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records an attempt. A second attempt on the same date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, guesses, won, elapsed_ms)
         VALUES(?,?,?,?,?)`, r.OwnerID, r.Date, r.Guesses, r.Won, r.ElapsedMs,
	)
	return err
}

// Leaderboard ranks the winners of date by guesses, then time taken.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, 'guest'), d.guesses, d.elapsed_ms
         FROM daily_results d LEFT JOIN users u ON u.id = d.owner_id
         WHERE d.date=? AND d.won=1
         ORDER BY d.guesses ASC, d.elapsed_ms ASC, d.created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.Guesses, &e.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
