// Package odal implements the governance cycle state machine:
// Observe -> Decide -> Act -> Log.
//
// A cycle takes one free-text input through four phases. OBSERVE screens it
// with the prompt guard; an unsafe input rejects the cycle before any intent
// is extracted. DECIDE classifies the input into a structured action and
// evaluates it against the policy engine. ACT runs only on approval and
// delegates to a caller-supplied executor (or simulates when none is given).
// LOG closes the cycle with a summary audit event and returns the engine to
// idle.
//
// No fault escapes the cycle boundary: a panic in any phase degrades the
// cycle to a rejection with a system-error reason, and the cycle is still
// counted, logged, and appended to history. Only construction-time failures
// are fatal.
//
// Cycles may run concurrently on one engine; the counter and history are
// synchronized and each cycle is published to history atomically once fully
// built.
package odal
