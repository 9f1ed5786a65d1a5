// Package policy implements the policy-as-code evaluation engine.
//
// # Overview
//
// Policies are named, independently enableable groups of rules loaded once
// at engine construction from YAML documents. Each rule carries a typed
// condition, a target outcome (reject, require_approval, or warn; approve is
// never a rule outcome), and a message template interpolated from the merged
// action and context fields.
//
// # Evaluation Semantics
//
// Policies are evaluated in lexical order of policy ID, rules in document
// order. The first rule that fires with a reject outcome short-circuits the
// entire evaluation and becomes the verdict. Require-approval and warn
// findings accumulate across all remaining rules; after full iteration the
// verdict is require_approval if any such finding exists, otherwise warn if
// any warning exists, otherwise approve with an empty finding list.
//
// # Cost Accounting
//
// When an Accountant is attached, the evaluation context is enriched with
// the current period spend before any rule is evaluated. The built-in budget
// policy rejects actions whose estimated cost plus accounted spend exceeds
// the caller-supplied budget ceiling.
//
// # Thread Safety
//
// The loaded policy set is immutable for the engine's lifetime. The internal
// evaluation log is protected by a mutex; Evaluate may be called from any
// number of goroutines.
package policy
