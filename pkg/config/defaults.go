package config

import "time"

// Default paths, relative to the working directory unless overridden.
const (
	DefaultPolicyDir  = "policies"
	DefaultAuditDir   = "audit_logs"
	DefaultListenAddr = ":8085"
)

// ApplyDefaults fills unset fields with production-safe defaults. It is
// idempotent and never overwrites explicitly configured values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Guard.Threshold == 0 {
		cfg.Guard.Threshold = 5
	}
	if len(cfg.Guard.Languages) == 0 {
		cfg.Guard.Languages = []string{"en", "ko"}
	}

	if cfg.Policy.Dir == "" {
		cfg.Policy.Dir = DefaultPolicyDir
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = AuditBackendJSONL
	}
	if cfg.Audit.Dir == "" {
		cfg.Audit.Dir = DefaultAuditDir
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = "audit.db"
	}
	if cfg.Audit.Retention.PruneSchedule == "" {
		cfg.Audit.Retention.PruneSchedule = "0 3 * * *"
	}

	if cfg.CostTracking.PeriodDays == 0 {
		cfg.CostTracking.PeriodDays = 30
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "minerva"
	}
}

// DefaultConfig returns a fully defaulted configuration with the guard,
// metrics, and cost tracking enabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Guard.Enabled = true
	cfg.CostTracking.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
