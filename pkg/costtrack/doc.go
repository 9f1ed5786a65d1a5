// Package costtrack implements the cost-accounting collaborator consumed by
// the policy engine's budget rules.
//
// The Tracker accounts spend over a rolling period window (30 days by
// default) with per-category breakdown. The governance core only ever reads
// the running total; writes come from whatever upstream meters spend (LLM
// token billing, infrastructure cost feeds, manual entries).
//
// With a persistence store attached, spend entries survive restarts: on
// construction the tracker replays entries still inside the period window.
package costtrack
