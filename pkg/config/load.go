package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// MINERVA_* environment overrides, and validates the result.
//
// An empty path yields the default configuration (still subject to env
// overrides and validation), so the binary runs without a config file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	} else {
		cfg = *DefaultConfig()
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies MINERVA_SECTION_FIELD environment overrides.
// Environment variables always take precedence over file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("MINERVA_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("MINERVA_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("MINERVA_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("MINERVA_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	if val := os.Getenv("MINERVA_GUARD_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Guard.Enabled = b
		}
	}
	if val := os.Getenv("MINERVA_GUARD_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Guard.Threshold = i
		}
	}
	if val := os.Getenv("MINERVA_GUARD_PACK_DIR"); val != "" {
		cfg.Guard.PackDir = val
	}

	if val := os.Getenv("MINERVA_POLICY_DIR"); val != "" {
		cfg.Policy.Dir = val
	}

	if val := os.Getenv("MINERVA_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("MINERVA_AUDIT_DIR"); val != "" {
		cfg.Audit.Dir = val
	}
	if val := os.Getenv("MINERVA_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}
	if val := os.Getenv("MINERVA_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.RetentionDays = i
		}
	}
	if val := os.Getenv("MINERVA_AUDIT_PRUNE_SCHEDULE"); val != "" {
		cfg.Audit.Retention.PruneSchedule = val
	}

	if val := os.Getenv("MINERVA_COST_TRACKING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.CostTracking.Enabled = b
		}
	}
	if val := os.Getenv("MINERVA_COST_TRACKING_PERIOD_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.CostTracking.PeriodDays = i
		}
	}
	if val := os.Getenv("MINERVA_COST_TRACKING_DB_PATH"); val != "" {
		cfg.CostTracking.DBPath = val
	}

	if val := os.Getenv("MINERVA_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MINERVA_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MINERVA_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
