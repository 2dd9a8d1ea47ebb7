package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrUnknownUser = errors.New("unknown user")

// timeFormat sorts lexically in UTC.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Player says who made the guesses of a finished game.
type Player string

const (
	PlayerHuman  Player = "human"
	PlayerEngine Player = "engine"
)

// Result is one finished game.
type Result struct {
	GameID      string    `json:"gameId"`
	UserID      string    `json:"userId,omitempty"`
	AnonymousID string    `json:"-"`
	Player      Player    `json:"player"`
	Length      int       `json:"length"`
	Elements    int       `json:"elements"`
	Guesses     int       `json:"guesses"`
	Won         bool      `json:"won"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Entry is a leaderboard row.
type Entry struct {
	GameID     string    `json:"gameId"`
	Username   string    `json:"username"` // "guest" for anonymous games
	Player     Player    `json:"player"`
	Guesses    int       `json:"guesses"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats aggregates one user's games.
type Stats struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Streak      int     `json:"streak"`
	Best        int     `json:"bestGuesses,omitempty"`
	Mean        float64 `json:"meanGuesses,omitempty"`
}

// Store persists finished games.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store { return &Store{db: db, now: time.Now} }

// Insert records a finished game. A game is recorded once; inserting the
// same GameID again is ignored. Results owned by a user also bump the
// user's counters, in the same transaction.
func (s *Store) Insert(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = s.now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, user_id, anonymous_id, player, length, elements, guesses, won, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, nullable(r.UserID), nullable(r.AnonymousID), string(r.Player),
		r.Length, r.Elements, r.Guesses, r.Won, r.FinishedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Won); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// bumpStats increments games played and updates wins and streak.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	err := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID).
		Scan(&gp, &wins, &streak)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	if err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// Leaderboard returns the won games of one size with the fewest guesses,
// earliest first on ties. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, length, elements, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.game_id, COALESCE(u.username, 'guest'), r.player, r.guesses, r.finished_at
        FROM results r LEFT JOIN users u ON u.id = r.user_id
        WHERE r.won = 1 AND r.length = ? AND r.elements = ?
        ORDER BY r.guesses ASC, r.finished_at ASC, r.id ASC
        LIMIT ?`, length, elements, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var player, finished string
		if err := rows.Scan(&e.GameID, &e.Username, &player, &e.Guesses, &finished); err != nil {
			return nil, err
		}
		e.Player = Player(player)
		e.FinishedAt, _ = time.Parse(timeFormat, finished)
		out = append(out, e)
	}
	return out, rows.Err()
}

// UserStats combines the user's counters with aggregates over their wins.
func (s *Store) UserStats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID).
		Scan(&st.GamesPlayed, &st.Wins, &st.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	if err != nil {
		return Stats{}, err
	}

	var best sql.NullInt64
	var mean sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MIN(guesses), AVG(guesses) FROM results WHERE user_id=? AND won=1`, userID,
	).Scan(&best, &mean); err != nil {
		return Stats{}, err
	}
	st.Best = int(best.Int64)
	st.Mean = mean.Float64
	return st, nil
}

// Claim transfers anonymous results to a user after signup or login.
func (s *Store) Claim(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=? AND user_id IS NULL`, userID, anonID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
