// Package history persists finished quiz sessions in a local sqlite
// database so past scores can be reviewed from the menu.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/flashdeck/internal/domain"
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Session is one stored row of the sessions table.
type Session struct {
	ID         int64
	StartedAt  time.Time
	User       string
	Bank       string
	Total      int
	Score      int
	Wrong      int
	Percent    float64
	ExportPath sql.NullString
}

// InsertSession records one finished (or aborted) session and the path its
// results were exported to, if any.
func (db *DB) InsertSession(rep domain.Report, exportPath string) error {
	export := sql.NullString{String: exportPath, Valid: exportPath != ""}
	_, err := db.conn.Exec(`
		INSERT INTO sessions (started_at, user, bank, total, score, wrong, percent, export_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rep.StartedAt,
		rep.User,
		rep.Bank,
		rep.Total,
		rep.Score,
		rep.Wrong,
		rep.Percent,
		export,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session for bank %s: %w", rep.Bank, err)
	}
	return nil
}

// RecentSessions returns up to limit sessions, newest first.
func (db *DB) RecentSessions(limit int) ([]Session, error) {
	rows, err := db.conn.Query(`
		SELECT id, started_at, user, bank, total, score, wrong, percent, export_path
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID,
			&s.StartedAt,
			&s.User,
			&s.Bank,
			&s.Total,
			&s.Score,
			&s.Wrong,
			&s.Percent,
			&s.ExportPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// BankStats aggregates all stored sessions for one bank.
type BankStats struct {
	Bank       string
	Sessions   int
	BestScore  int
	AvgPercent float64
}

// StatsByBank summarises the stored sessions per bank, best percent first.
func (db *DB) StatsByBank() ([]BankStats, error) {
	rows, err := db.conn.Query(`
		SELECT bank, COUNT(*), MAX(score), AVG(percent)
		FROM sessions
		GROUP BY bank
		ORDER BY AVG(percent) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank stats: %w", err)
	}
	defer rows.Close()

	var stats []BankStats
	for rows.Next() {
		var s BankStats
		if err := rows.Scan(&s.Bank, &s.Sessions, &s.BestScore, &s.AvgPercent); err != nil {
			return nil, fmt.Errorf("failed to scan bank stats row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank stats: %w", err)
	}
	return stats, nil
}
