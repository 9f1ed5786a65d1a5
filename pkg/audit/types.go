package audit

import "time"

// EventType tags the kind of occurrence an event records.
type EventType string

const (
	EventPromptInjection EventType = "prompt_injection"
	EventPolicyViolation EventType = "policy_violation"
	EventPolicyApproval  EventType = "policy_approval"
	EventAccessDenied    EventType = "access_denied"
	EventHighCostAction  EventType = "high_cost_action"
	EventDecisionMade    EventType = "decision_made"
	EventActionExecuted  EventType = "action_executed"
)

// Severity grades an event for reporting and operator alerting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Event is one immutable audit record. Once appended it is never mutated
// or deleted (retention pruning removes whole expired partitions, not
// individual events).
type Event struct {
	// ID is a UUID v4 assigned at record time.
	ID string `json:"id"`

	// Timestamp is the UTC record time.
	Timestamp time.Time `json:"timestamp"`

	// Type tags the occurrence.
	Type EventType `json:"event_type"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// Severity grades the event.
	Severity Severity `json:"severity"`

	// Metadata carries arbitrary structured detail.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Filter selects events from the index. Zero-valued fields match
// everything; set fields are ANDed.
type Filter struct {
	Type     EventType
	Severity Severity
	Since    time.Time
	Until    time.Time
}

// matches reports whether the event satisfies every set filter field.
func (f Filter) matches(e *Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Severity != "" && e.Severity != f.Severity {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
		return false
	}
	return true
}

// Statistics summarizes the in-memory index.
type Statistics struct {
	TotalEvents int               `json:"total_events"`
	ByType      map[EventType]int `json:"event_type_distribution"`
	BySeverity  map[Severity]int  `json:"severity_distribution"`
	FirstEvent  time.Time         `json:"first_event,omitempty"`
	LastEvent   time.Time         `json:"last_event,omitempty"`
}

// Store is a durable append-only event sink.
type Store interface {
	// Append durably records one event.
	Append(e *Event) error

	// Close releases store resources.
	Close() error
}

// Pruner deletes expired events from a store. Stores that support
// retention implement it alongside Store.
type Pruner interface {
	// PruneBefore removes events recorded before the cutoff and returns
	// how many partitions or rows were removed.
	PruneBefore(cutoff time.Time) (int, error)
}

// Notifier surfaces high-severity events to an operator-visible channel
// synchronously at write time.
type Notifier interface {
	Notify(e *Event)
}
