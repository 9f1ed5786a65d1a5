package audit

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// maxReportedAlerts caps how many high-severity events a report lists.
const maxReportedAlerts = 10

// Report renders a human-readable summary of the in-memory index.
func (r *Recorder) Report() string {
	return RenderReport(r.Events())
}

// WriteReport renders the report and persists it to path.
func (r *Recorder) WriteReport(path string) error {
	if err := os.WriteFile(path, []byte(r.Report()), 0o644); err != nil {
		return fmt.Errorf("failed to write audit report %q: %w", path, err)
	}
	return nil
}

// RenderReport builds the summary for an arbitrary event list, so offline
// consumers can report over partitions read from disk.
func RenderReport(events []*Event) string {
	var b strings.Builder

	b.WriteString("# Security Audit Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Summary\n- Total Events: %d\n", len(events))
	if len(events) > 0 {
		fmt.Fprintf(&b, "- Time Range: %s to %s\n",
			events[0].Timestamp.Format(time.RFC3339),
			events[len(events)-1].Timestamp.Format(time.RFC3339),
		)
	}

	byType := make(map[EventType]int)
	bySeverity := make(map[Severity]int)
	var alerts []*Event
	for _, e := range events {
		byType[e.Type]++
		bySeverity[e.Severity]++
		if e.Severity == SeverityError || e.Severity == SeverityCritical {
			alerts = append(alerts, e)
		}
	}

	b.WriteString("\n## Event Type Distribution\n")
	for _, line := range sortedCounts(byType) {
		b.WriteString(line)
	}

	b.WriteString("\n## Severity Distribution\n")
	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical} {
		if n := bySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", sev, n)
		}
	}

	if len(alerts) > 0 {
		fmt.Fprintf(&b, "\n## High-Severity Events (%d)\n", len(alerts))
		shown := alerts
		if len(shown) > maxReportedAlerts {
			shown = shown[len(shown)-maxReportedAlerts:]
		}
		for _, e := range shown {
			fmt.Fprintf(&b, "- [%s] %s: %s\n",
				e.Timestamp.Format(time.RFC3339), e.Type, e.Description)
		}
	}

	return b.String()
}

// sortedCounts renders a count map as sorted report lines for stable
// output.
func sortedCounts(counts map[EventType]int) []string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	lines := make([]string, 0, len(types))
	for _, t := range types {
		lines = append(lines, fmt.Sprintf("- %s: %d\n", t, counts[EventType(t)]))
	}
	return lines
}
