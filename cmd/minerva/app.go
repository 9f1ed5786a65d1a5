package main

import (
	"fmt"
	"log/slog"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/config"
	"sentinel-hq/minerva/pkg/costtrack"
	"sentinel-hq/minerva/pkg/guard"
	"sentinel-hq/minerva/pkg/odal"
	"sentinel-hq/minerva/pkg/policy"
	"sentinel-hq/minerva/pkg/telemetry/logging"
	"sentinel-hq/minerva/pkg/telemetry/metrics"
)

// app bundles the wired governance components for a command's lifetime.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	guard    *guard.Guard
	policies *policy.Engine
	store    audit.Store
	recorder *audit.Recorder
	tracker  *costtrack.Tracker
	metrics  *metrics.Collector
	engine   *odal.Engine
}

// loadConfig loads configuration honoring the global --config and --verbose
// flags and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// buildApp assembles the full governance stack from configuration.
// Construction failures are fatal: no governance can run without a working
// guard, policy set, and audit sink.
func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	g, err := guard.New(cfg.Guard, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt guard: %w", err)
	}

	policies, err := policy.LoadDir(cfg.Policy.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	var tracker *costtrack.Tracker
	var accountant policy.Accountant
	if cfg.CostTracking.Enabled {
		tracker, err = costtrack.NewTracker(cfg.CostTracking, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cost tracker: %w", err)
		}
		accountant = tracker
	}

	policyEngine := policy.NewEngine(policies, accountant, logger)

	var store audit.Store
	switch cfg.Audit.Backend {
	case config.AuditBackendSQLite:
		store, err = audit.NewSQLiteStore(cfg.Audit.SQLitePath)
	default:
		store, err = audit.NewFileStore(cfg.Audit.Dir)
	}
	if err != nil {
		if tracker != nil {
			tracker.Close()
		}
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	recorder := audit.NewRecorder(store, nil, logger)

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	recorder.OnRecord = func(e *audit.Event) {
		collector.RecordAuditEvent(string(e.Type), string(e.Severity))
	}

	engine, err := odal.NewEngine(g, policyEngine, recorder, odal.Options{
		Metrics: collector,
	}, logger)
	if err != nil {
		recorder.Close()
		if tracker != nil {
			tracker.Close()
		}
		return nil, fmt.Errorf("failed to initialize governance engine: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		guard:    g,
		policies: policyEngine,
		store:    store,
		recorder: recorder,
		tracker:  tracker,
		metrics:  collector,
		engine:   engine,
	}, nil
}

// Close releases the app's stores.
func (rt *app) Close() {
	if err := rt.recorder.Close(); err != nil {
		rt.logger.Error("failed to close audit store", "error", err)
	}
	if rt.tracker != nil {
		if err := rt.tracker.Close(); err != nil {
			rt.logger.Error("failed to close cost tracker", "error", err)
		}
	}
}
