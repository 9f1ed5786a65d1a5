package costtrack

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SpendEntry is one persisted spend record.
type SpendEntry struct {
	Timestamp time.Time
	Category  string
	Amount    float64
}

// SpendStore persists spend entries in SQLite so period accounting
// survives process restarts.
type SpendStore struct {
	db *sql.DB
	mu sync.Mutex

	appendStmt *sql.Stmt
}

// NewSpendStore opens (or creates) the spend database at path.
func NewSpendStore(path string) (*SpendStore, error) {
	if path == "" {
		return nil, fmt.Errorf("spend database path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open spend database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS spend_entries (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		category  TEXT NOT NULL,
		amount    REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_spend_timestamp ON spend_entries(timestamp);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize spend schema: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO spend_entries (timestamp, category, amount) VALUES (?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare spend insert: %w", err)
	}

	return &SpendStore{db: db, appendStmt: stmt}, nil
}

// Append persists one spend entry.
func (s *SpendStore) Append(e SpendEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.appendStmt.Exec(e.Timestamp.UTC().UnixNano(), e.Category, e.Amount)
	if err != nil {
		return fmt.Errorf("failed to insert spend entry: %w", err)
	}
	return nil
}

// LoadSince returns all entries recorded at or after the cutoff, oldest
// first.
func (s *SpendStore) LoadSince(cutoff time.Time) ([]SpendEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT timestamp, category, amount
		FROM spend_entries
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, cutoff.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query spend entries: %w", err)
	}
	defer rows.Close()

	var entries []SpendEntry
	for rows.Next() {
		var ts int64
		var e SpendEntry
		if err := rows.Scan(&ts, &e.Category, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan spend entry: %w", err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the prepared statement and the database handle.
func (s *SpendStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendStmt != nil {
		s.appendStmt.Close()
	}
	return s.db.Close()
}
