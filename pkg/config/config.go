package config

import (
	"time"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/costtrack"
	"sentinel-hq/minerva/pkg/guard"
	"sentinel-hq/minerva/pkg/telemetry/logging"
	"sentinel-hq/minerva/pkg/telemetry/metrics"
)

// Config is the root configuration for the Minerva governance runtime.
type Config struct {
	// Server configures the HTTP entry point.
	Server ServerConfig `yaml:"server"`

	// Guard configures the prompt injection detector.
	Guard guard.Config `yaml:"guard"`

	// Policy configures policy loading.
	Policy PolicyConfig `yaml:"policy"`

	// Audit configures the audit event sink.
	Audit AuditConfig `yaml:"audit"`

	// CostTracking configures the period spend accountant.
	CostTracking costtrack.Config `yaml:"cost_tracking"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the host:port to bind. Default: ":8085".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle connection timeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PolicyConfig contains policy source settings.
type PolicyConfig struct {
	// Dir is the directory of YAML policy documents. Created and seeded
	// with the default policies when empty or missing.
	Dir string `yaml:"dir"`
}

// Audit storage backends.
const (
	AuditBackendJSONL  = "jsonl"
	AuditBackendSQLite = "sqlite"
)

// AuditConfig contains audit sink settings.
type AuditConfig struct {
	// Backend selects the durable store: "jsonl" (day-partitioned files)
	// or "sqlite". Default: "jsonl".
	Backend string `yaml:"backend"`

	// Dir is the partition directory for the jsonl backend.
	Dir string `yaml:"dir"`

	// SQLitePath is the database path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// Retention configures scheduled pruning.
	Retention audit.RetentionConfig `yaml:"retention"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging logging.Config `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`
}
