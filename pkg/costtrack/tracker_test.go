package costtrack

import (
	"math"
	"path/filepath"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestTracker_AddAndTotal verifies in-memory accounting.
func TestTracker_AddAndTotal(t *testing.T) {
	tracker, err := NewTracker(Config{Enabled: true, PeriodDays: 30}, nil)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	defer tracker.Close()

	tracker.Add("deploy", 100)
	tracker.Add("scale", 200)
	tracker.Add("deploy", 50)

	if got := tracker.TotalSpend(); !almostEqual(got, 350) {
		t.Errorf("TotalSpend = %g, want 350", got)
	}
	if got := tracker.AllTimeSpend(); !almostEqual(got, 350) {
		t.Errorf("AllTimeSpend = %g, want 350", got)
	}

	breakdown := tracker.Breakdown()
	if !almostEqual(breakdown["deploy"], 150) || !almostEqual(breakdown["scale"], 200) {
		t.Errorf("unexpected breakdown: %+v", breakdown)
	}
}

// TestTracker_Replay verifies that persisted spend survives a restart.
func TestTracker_Replay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spend.db")
	cfg := Config{Enabled: true, PeriodDays: 30, DBPath: path}

	tracker, err := NewTracker(cfg, nil)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	tracker.Add("deploy", 400)
	tracker.Add("scale", 100)
	if err := tracker.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewTracker(cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if got := reopened.TotalSpend(); !almostEqual(got, 500) {
		t.Errorf("replayed TotalSpend = %g, want 500", got)
	}
	if got := reopened.Breakdown()["deploy"]; !almostEqual(got, 400) {
		t.Errorf("replayed breakdown deploy = %g, want 400", got)
	}
}

// TestSpendStore_LoadSince verifies the cutoff query.
func TestSpendStore_LoadSince(t *testing.T) {
	store, err := NewSpendStore(filepath.Join(t.TempDir(), "spend.db"))
	if err != nil {
		t.Fatalf("NewSpendStore: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC()
	entries := []SpendEntry{
		{Timestamp: now.AddDate(0, 0, -60), Category: "deploy", Amount: 10},
		{Timestamp: now.AddDate(0, 0, -5), Category: "deploy", Amount: 20},
		{Timestamp: now, Category: "scale", Amount: 30},
	}
	for _, e := range entries {
		if err := store.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.LoadSince(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("LoadSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadSince returned %d entries, want 2", len(got))
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("entries must come back oldest first")
	}
}

// TestRollingWindow_DropsExpired verifies that entries outside the window
// never count.
func TestRollingWindow_DropsExpired(t *testing.T) {
	w := newRollingWindow(30*24*time.Hour, 24*time.Hour)

	w.addAt(time.Now().Add(-60*24*time.Hour), 999)
	w.addAt(time.Now(), 50)

	if got := w.sum(); !almostEqual(got, 50) {
		t.Errorf("sum = %g, want 50", got)
	}
}
