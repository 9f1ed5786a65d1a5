package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is the alternative durable store for deployments that want
// the audit trail queryable with standard tooling. Events remain
// append-only; the only deletion path is retention pruning.
type SQLiteStore struct {
	db *sql.DB

	mu         sync.Mutex
	appendStmt *sql.Stmt
}

// NewSQLiteStore opens (or creates) the audit database at path and
// initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("audit database path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id          TEXT PRIMARY KEY,
		timestamp   INTEGER NOT NULL,
		event_type  TEXT NOT NULL,
		severity    TEXT NOT NULL,
		description TEXT NOT NULL,
		metadata    TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_type ON audit_events(event_type);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO audit_events (id, timestamp, event_type, severity, description, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare append statement: %w", err)
	}

	return &SQLiteStore{db: db, appendStmt: stmt}, nil
}

// Append inserts one event row.
func (s *SQLiteStore) Append(e *Event) error {
	var metadata []byte
	if e.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("failed to encode event metadata: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.appendStmt.Exec(
		e.ID,
		e.Timestamp.UTC().UnixNano(),
		string(e.Type),
		string(e.Severity),
		e.Description,
		string(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event %s: %w", e.ID, err)
	}
	return nil
}

// PruneBefore deletes rows recorded before the cutoff and returns the row
// count removed.
func (s *SQLiteStore) PruneBefore(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM audit_events WHERE timestamp < ?`,
		cutoff.UTC().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendStmt != nil {
		s.appendStmt.Close()
	}
	return s.db.Close()
}
