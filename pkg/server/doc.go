// Package server provides the HTTP entry point to the governance engine.
//
// # Routes
//
//   - POST /v1/cycles       - run one governance cycle (simulated execution)
//   - GET  /v1/cycles       - retained cycle history
//   - GET  /v1/statistics   - aggregate engine statistics
//   - GET  /v1/audit/events - audit index search (type, severity, since, until)
//   - GET  /v1/audit/report - rendered audit summary (plain text)
//   - GET  /healthz         - liveness probe
//   - GET  /metrics         - Prometheus exposition (when metrics are wired)
//
// # Lifecycle
//
// Start blocks until context cancellation, SIGINT/SIGTERM, or Shutdown,
// then drains connections within the configured shutdown timeout. Handler()
// returns the route handler directly for httptest-based tests.
package server
