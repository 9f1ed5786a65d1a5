package costtrack

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config controls the tracker's accounting period and persistence.
type Config struct {
	// Enabled toggles cost tracking.
	Enabled bool `yaml:"enabled"`

	// PeriodDays is the rolling accounting period in days. Default: 30.
	PeriodDays int `yaml:"period_days"`

	// DBPath optionally enables SQLite persistence of spend entries.
	DBPath string `yaml:"db_path"`
}

// Tracker accounts spend over a rolling period window with per-category
// breakdown. It implements the policy engine's Accountant contract.
type Tracker struct {
	window *rollingWindow
	store  *SpendStore
	logger *slog.Logger

	// mu protects the category breakdown and all-time total.
	mu         sync.RWMutex
	byCategory map[string]float64
	allTime    float64
}

// NewTracker creates a tracker. With a DBPath configured, persisted spend
// entries inside the period window are replayed so the running total
// survives restarts.
func NewTracker(cfg Config, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PeriodDays <= 0 {
		cfg.PeriodDays = 30
	}

	period := time.Duration(cfg.PeriodDays) * 24 * time.Hour
	t := &Tracker{
		// 1-day buckets over the period window.
		window:     newRollingWindow(period, 24*time.Hour),
		logger:     logger.With("component", "costtrack"),
		byCategory: make(map[string]float64),
	}

	if cfg.DBPath != "" {
		store, err := NewSpendStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		t.store = store

		entries, err := store.LoadSince(time.Now().Add(-period))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to replay spend entries: %w", err)
		}
		for _, e := range entries {
			t.window.addAt(e.Timestamp, e.Amount)
			t.byCategory[e.Category] += e.Amount
			t.allTime += e.Amount
		}
		t.logger.Info("replayed persisted spend entries",
			"entries", len(entries),
			"period_spend", t.window.sum(),
		)
	}

	return t, nil
}

// Add records spend in the given category. When persistence is configured
// the entry is written through before the in-memory windows are updated.
func (t *Tracker) Add(category string, amount float64) error {
	now := time.Now()

	if t.store != nil {
		if err := t.store.Append(SpendEntry{
			Timestamp: now,
			Category:  category,
			Amount:    amount,
		}); err != nil {
			return err
		}
	}

	t.window.addAt(now, amount)

	t.mu.Lock()
	t.byCategory[category] += amount
	t.allTime += amount
	t.mu.Unlock()

	return nil
}

// TotalSpend returns the spend accounted inside the current period window.
func (t *Tracker) TotalSpend() float64 {
	return t.window.sum()
}

// AllTimeSpend returns the total spend accounted since the tracker's data
// began (including replayed history).
func (t *Tracker) AllTimeSpend() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allTime
}

// Breakdown returns a copy of the per-category spend totals.
func (t *Tracker) Breakdown() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]float64, len(t.byCategory))
	for k, v := range t.byCategory {
		out[k] = v
	}
	return out
}

// Close releases the persistence store, if any.
func (t *Tracker) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}
