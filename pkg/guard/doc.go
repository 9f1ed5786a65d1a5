// Package guard implements the prompt-injection detector that protects the
// governance loop's decision phase from manipulated input.
//
// # Detection Model
//
// The guard maintains per-language tables mapping attack categories to
// regular-expression patterns. Every enabled language is scanned against
// every pattern; each match contributes a fixed per-category weight to a
// cumulative severity score and is recorded with its match span. Weights
// reflect exploit severity, not frequency: data exfiltration and command
// override weigh more than role confusion.
//
// The severity tier is a step function of the score (>=10 critical, >=7
// high, >=4 medium, else low) and the safety verdict is score < threshold;
// a score equal to the threshold is unsafe.
//
// # Pattern Packs
//
// The built-in English and Korean tables are always active for their
// enabled languages. Operators can add patterns through YAML pack files in
// a configured directory; packs are merged on top of the built-ins and can
// be reloaded by a file watcher without restarting the process.
//
// Detection itself is stateless per call; only cumulative detection
// counters persist for statistics.
package guard
