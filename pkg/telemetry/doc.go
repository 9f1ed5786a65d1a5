// Package telemetry groups the observability subpackages.
//
//   - logging: structured slog setup (level, format, default install)
//   - metrics: Prometheus metrics for the governance pipeline
//
// Components receive a *slog.Logger and, where it matters, a
// *metrics.Collector through their constructors; there is no global
// telemetry state beyond the slog default.
package telemetry
