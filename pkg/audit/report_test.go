package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestRecorder_Report verifies the rendered summary content.
func TestRecorder_Report(t *testing.T) {
	r := NewRecorder(nil, nil, nil)

	r.Record(EventPolicyApproval, "approved", nil, SeverityInfo)
	r.Record(EventDecisionMade, "decision", nil, SeverityInfo)
	r.Record(EventPromptInjection, "injection attempt", nil, SeverityError)

	report := r.Report()

	for _, want := range []string{
		"# Security Audit Report",
		"Total Events: 3",
		"policy_approval: 1",
		"decision_made: 1",
		"prompt_injection: 1",
		"info: 2",
		"error: 1",
		"High-Severity Events (1)",
		"injection attempt",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

// TestRecorder_ReportAlertCap verifies that only the most recent
// high-severity events are listed.
func TestRecorder_ReportAlertCap(t *testing.T) {
	r := NewRecorder(nil, nil, nil)

	for i := 0; i < 15; i++ {
		r.Record(EventPolicyViolation, "violation", nil, SeverityError)
	}

	report := r.Report()
	if !strings.Contains(report, "High-Severity Events (15)") {
		t.Errorf("expected full alert count in heading\n%s", report)
	}
	if got := strings.Count(report, "- ["); got != maxReportedAlerts {
		t.Errorf("expected %d listed alerts, got %d", maxReportedAlerts, got)
	}
}

// TestRecorder_WriteReport verifies report persistence.
func TestRecorder_WriteReport(t *testing.T) {
	r := NewRecorder(nil, nil, nil)
	r.Record(EventDecisionMade, "decision", nil, SeverityInfo)

	path := filepath.Join(t.TempDir(), "report.md")
	if err := r.WriteReport(path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Total Events: 1") {
		t.Error("persisted report has unexpected content")
	}
}
