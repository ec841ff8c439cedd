// Package storage provides SQLite-based persistence for the leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/session"
)

// ErrNotFound is returned when a score entry does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single leaderboard row.
type ScoreEntry struct {
	ID        int64
	SessionID string
	Name      string
	Score     int
	Rows      int
	Columns   int
	MaxTile   int
	Moves     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; the HTTP and SSH servers share this store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			board_rows INTEGER NOT NULL,
			board_columns INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(board_rows, board_columns, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a leaderboard entry.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO scores (session_id, name, score, board_rows, board_columns, max_tile, moves)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Name, e.Score, e.Rows, e.Columns, e.MaxTile, e.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for one board size.
// Results are ordered by score descending, earlier entries first on ties.
func (s *Store) TopScores(rows, columns, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rs, err := s.db.Query(
		`SELECT id, session_id, name, score, board_rows, board_columns, max_tile, moves, created_at
		 FROM scores
		 WHERE board_rows = ? AND board_columns = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		rows, columns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rs.Close()

	var entries []ScoreEntry
	for rs.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rs.Scan(&e.ID, &e.SessionID, &e.Name, &e.Score, &e.Rows, &e.Columns, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for one board size.
// Returns 0 if no scores exist.
func (s *Store) HighScore(rows, columns int) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE board_rows = ? AND board_columns = ?",
		rows, columns,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for one board size.
func (s *Store) ClearScores(rows, columns int) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE board_rows = ? AND board_columns = ?", rows, columns)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// RecordFinished saves the leaderboard entry for a finished session.
func (s *Store) RecordFinished(snap session.Snapshot, name string) (int64, error) {
	return s.SaveScore(ScoreEntry{
		SessionID: snap.ID,
		Name:      name,
		Score:     snap.Score,
		Rows:      snap.Rows,
		Columns:   snap.Columns,
		MaxTile:   snap.MaxTile,
		Moves:     snap.Moves,
	})
}

// ScoreBySession retrieves the entry saved for a session.
func (s *Store) ScoreBySession(sessionID string) (*ScoreEntry, error) {
	var e ScoreEntry
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, session_id, name, score, board_rows, board_columns, max_tile, moves, created_at
		 FROM scores
		 WHERE session_id = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		sessionID,
	).Scan(&e.ID, &e.SessionID, &e.Name, &e.Score, &e.Rows, &e.Columns, &e.MaxTile, &e.Moves, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query score: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// BoardStats contains aggregated statistics for one board size.
type BoardStats struct {
	Rows       int
	Columns    int
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestTile   int
	LastPlayed time.Time
}

// Key returns the "RxC" label for the board size.
func (b BoardStats) Key() string {
	return fmt.Sprintf("%dx%d", b.Rows, b.Columns)
}

// GetBoardStats retrieves aggregated statistics for one board size.
func (s *Store) GetBoardStats(rows, columns int) (*BoardStats, error) {
	stats := &BoardStats{Rows: rows, Columns: columns}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(MAX(max_tile), 0), MAX(created_at)
		 FROM scores WHERE board_rows = ? AND board_columns = ?`,
		rows, columns,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.BestTile, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllBoardStats retrieves statistics for every board size played, keyed
// by "RxC".
func (s *Store) GetAllBoardStats() (map[string]*BoardStats, error) {
	rs, err := s.db.Query(
		`SELECT board_rows, board_columns, COUNT(*), MAX(score), AVG(score), MAX(max_tile), MAX(created_at)
		 FROM scores
		 GROUP BY board_rows, board_columns`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rs.Close()

	stats := make(map[string]*BoardStats)
	for rs.Next() {
		var b BoardStats
		var lastPlayed any
		if err := rs.Scan(&b.Rows, &b.Columns, &b.GamesCount, &b.HighScore, &b.AvgScore, &b.BestTile, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.LastPlayed = parseTime(lastPlayed)
		stats[b.Key()] = &b
	}

	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// NormalizeName trims a player name, falls back to def when empty and cuts
// it to at most maxLen runes.
func NormalizeName(name string, maxLen int, def string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = def
	}
	if maxLen > 0 && utf8.RuneCountInString(name) > maxLen {
		name = string([]rune(name)[:maxLen])
	}
	return name
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
