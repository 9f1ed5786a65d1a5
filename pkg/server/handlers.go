package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/policy"
)

// AuditReader is the read side of the audit recorder the server exposes.
type AuditReader interface {
	Search(f audit.Filter) []*audit.Event
	Report() string
}

// maxCycleInputBytes bounds the request body for cycle submissions.
const maxCycleInputBytes = 1 << 20 // 1 MiB

// cycleRequest is the POST /v1/cycles payload.
type cycleRequest struct {
	// Input is the free-text trigger to govern.
	Input string `json:"input"`

	// Context is the validation context evaluated alongside the action.
	Context policy.Context `json:"context,omitempty"`
}

// handleRunCycle runs one governance cycle for the submitted input.
//
// Execution is never performed over HTTP: approved cycles produce simulated
// results. Callers wanting real execution embed the engine and supply an
// executor.
func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCycleInputBytes)

	var req cycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input cannot be empty")
		return
	}

	cycle := s.engine.RunCycle(r.Context(), req.Input, req.Context, nil)
	writeJSON(w, http.StatusOK, cycle)
}

// handleHistory returns the retained cycle history, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.History())
}

// handleStatistics returns the engine's aggregate statistics.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Statistics())
}

// handleAuditEvents searches the audit index. Query parameters type,
// severity, since, and until (RFC 3339) are ANDed.
func (s *Server) handleAuditEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		Type:     audit.EventType(q.Get("type")),
		Severity: audit.Severity(q.Get("severity")),
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid since: %v", err))
			return
		}
		filter.Since = t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid until: %v", err))
			return
		}
		filter.Until = t
	}

	events := s.auditor.Search(filter)
	if events == nil {
		events = []*audit.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleAuditReport returns the rendered audit summary as plain text.
func (s *Server) handleAuditReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, s.auditor.Report())
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
