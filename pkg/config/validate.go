package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for internal consistency. It is called
// after defaults are applied, so zero values for defaulted fields indicate
// a bug rather than a user error.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address cannot be empty")
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if cfg.Guard.Threshold <= 0 {
		return fmt.Errorf("guard.threshold must be positive")
	}

	if cfg.Policy.Dir == "" {
		return fmt.Errorf("policy.dir cannot be empty")
	}

	switch cfg.Audit.Backend {
	case AuditBackendJSONL:
		if cfg.Audit.Dir == "" {
			return fmt.Errorf("audit.dir cannot be empty for the jsonl backend")
		}
	case AuditBackendSQLite:
		if cfg.Audit.SQLitePath == "" {
			return fmt.Errorf("audit.sqlite_path cannot be empty for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown audit backend %q (expected %q or %q)",
			cfg.Audit.Backend, AuditBackendJSONL, AuditBackendSQLite)
	}

	if cfg.Audit.Retention.RetentionDays < 0 {
		return fmt.Errorf("audit.retention.retention_days cannot be negative")
	}
	if cfg.Audit.Retention.RetentionDays > 0 && cfg.Audit.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.Retention.PruneSchedule); err != nil {
			return fmt.Errorf("invalid audit.retention.prune_schedule: %w", err)
		}
	}

	if cfg.CostTracking.PeriodDays <= 0 {
		return fmt.Errorf("cost_tracking.period_days must be positive")
	}

	return nil
}
