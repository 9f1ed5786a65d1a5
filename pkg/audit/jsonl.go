package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// partitionPrefix and partitionExt frame audit partition file names:
// audit_2026-08-28.jsonl.
const (
	partitionPrefix = "audit_"
	partitionExt    = ".jsonl"
	partitionDate   = "2006-01-02"
)

// FileStore appends events as JSON lines to one partition file per UTC
// calendar day. A new partition is opened automatically when the day rolls
// over. Partitions are never rewritten.
type FileStore struct {
	dir string

	mu  sync.Mutex
	day string
	f   *os.File
}

// NewFileStore creates the partition directory if needed and returns a
// store writing into it. Directory creation failure is fatal: no
// governance can proceed without a working audit sink.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Append writes one event to the current day partition.
func (s *FileStore) Append(e *Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := e.Timestamp.UTC().Format(partitionDate)
	if s.f == nil || day != s.day {
		if err := s.rotateLocked(day); err != nil {
			return err
		}
	}

	if _, err := s.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append to audit partition %q: %w", s.day, err)
	}
	return nil
}

// rotateLocked opens the partition for the given day, closing any previous
// partition. Caller must hold mu.
func (s *FileStore) rotateLocked(day string) error {
	if s.f != nil {
		s.f.Close()
		s.f = nil
	}
	path := filepath.Join(s.dir, partitionPrefix+day+partitionExt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit partition %q: %w", path, err)
	}
	s.f = f
	s.day = day
	return nil
}

// Close closes the open partition, if any.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.day = ""
	return err
}

// PruneBefore deletes whole partitions whose day is strictly before the
// cutoff's UTC day. It returns the number of partitions removed. The
// currently open partition is never eligible.
func (s *FileStore) PruneBefore(cutoff time.Time) (int, error) {
	cutoffDay := cutoff.UTC().Format(partitionDate)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read audit directory %q: %w", s.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, partitionPrefix) || !strings.HasSuffix(name, partitionExt) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, partitionPrefix), partitionExt)
		if _, err := time.Parse(partitionDate, day); err != nil {
			continue
		}
		if day >= cutoffDay {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove partition %q: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// ReadPartitions loads every event from every partition in dir, in
// timestamp order. It is intended for offline consumers (reports, audits)
// reading the historical log.
func ReadPartitions(dir string) ([]*Event, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit directory %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, partitionPrefix) && strings.HasSuffix(name, partitionExt) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var events []*Event
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read partition %q: %w", name, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			var e Event
			if err := json.Unmarshal([]byte(line), &e); err != nil {
				return nil, fmt.Errorf("corrupt record in partition %q: %w", name, err)
			}
			events = append(events, &e)
		}
	}
	return events, nil
}
