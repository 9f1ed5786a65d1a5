package audit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder is the append-only audit event sink. It maintains the in-memory
// index and forwards every event to the durable store.
type Recorder struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger

	// OnRecord, if set, observes every event after it is indexed. Used to
	// feed telemetry without coupling this package to the metrics registry.
	OnRecord func(*Event)

	// mu protects the index.
	mu     sync.RWMutex
	events []*Event
}

// NewRecorder creates a recorder over the given store. A nil notifier
// falls back to logging high-severity events at error level.
func NewRecorder(store Store, notifier Notifier, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit.recorder")
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}
	return &Recorder{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Record appends one immutable event.
//
// The in-memory index is always updated. A durable-store failure is
// returned for this call only and never rolls back the index. Error and
// critical events are surfaced through the notifier synchronously before
// Record returns.
func (r *Recorder) Record(t EventType, description string, metadata map[string]any, severity Severity) (*Event, error) {
	event := &Event{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Type:        t,
		Description: description,
		Severity:    severity,
		Metadata:    metadata,
	}

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	if severity == SeverityError || severity == SeverityCritical {
		r.notifier.Notify(event)
	}
	if r.OnRecord != nil {
		r.OnRecord(event)
	}

	if r.store != nil {
		if err := r.store.Append(event); err != nil {
			r.logger.Error("audit store append failed",
				"event_id", event.ID,
				"event_type", t,
				"error", err,
			)
			return event, fmt.Errorf("failed to append audit event %s: %w", event.ID, err)
		}
	}

	return event, nil
}

// Search returns all indexed events matching the filter, in record order.
func (r *Recorder) Search(f Filter) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Event
	for _, e := range r.events {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Statistics summarizes the index: total count, distributions by type and
// severity, and first/last event timestamps.
func (r *Recorder) Statistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Statistics{
		TotalEvents: len(r.events),
		ByType:      make(map[EventType]int),
		BySeverity:  make(map[Severity]int),
	}
	for _, e := range r.events {
		stats.ByType[e.Type]++
		stats.BySeverity[e.Severity]++
	}
	if len(r.events) > 0 {
		stats.FirstEvent = r.events[0].Timestamp
		stats.LastEvent = r.events[len(r.events)-1].Timestamp
	}
	return stats
}

// Events returns a snapshot of the full index in record order.
func (r *Recorder) Events() []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// Close closes the underlying store.
func (r *Recorder) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// LogNotifier is the default operator channel: it logs high-severity audit
// events at error level so they reach whatever sink the process logger is
// wired to.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(e *Event) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("audit alert",
		"event_id", e.ID,
		"event_type", e.Type,
		"severity", e.Severity,
		"description", e.Description,
	)
}
