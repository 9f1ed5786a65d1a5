package policy

// Outcome represents the result of a rule firing or of a full evaluation.
type Outcome string

const (
	// OutcomeApprove allows the action to proceed. It is only ever produced
	// by a full evaluation, never configured on a rule.
	OutcomeApprove Outcome = "approve"

	// OutcomeReject blocks the action. The first rejecting rule wins.
	OutcomeReject Outcome = "reject"

	// OutcomeRequireApproval defers the action to a human approver.
	OutcomeRequireApproval Outcome = "require_approval"

	// OutcomeWarn allows the action but records a warning finding.
	OutcomeWarn Outcome = "warn"
)

// Action is a structured description of what the agent wants to do.
// It is produced once per cycle by intent classification and is immutable
// thereafter.
type Action struct {
	// Type is the classification tag ("deploy", "scale", "delete", "unknown").
	Type string `json:"action_type"`

	// EstimatedCost is the estimated monetary cost in dollars.
	EstimatedCost float64 `json:"estimated_cost"`

	// Environment is the target environment tag ("development", "staging",
	// "production").
	Environment string `json:"environment"`

	// RequestedInstances is the number of instances requested, if any.
	RequestedInstances int `json:"requested_instances,omitempty"`

	// Input is the original free-text trigger.
	Input string `json:"user_input"`
}

// Context is the caller-supplied key/value bag evaluated alongside the
// action: actor identity, role, budget ceiling, environment, plus any
// extension fields. The engine injects derived fields (current period spend)
// into a working copy; the caller's map is never mutated.
type Context map[string]any

// Fields returns the action's evaluable fields keyed by their canonical
// names, as used by conditions and message templates.
func (a Action) Fields() map[string]any {
	return map[string]any{
		"action_type":         a.Type,
		"estimated_cost":      a.EstimatedCost,
		"environment":         a.Environment,
		"requested_instances": a.RequestedInstances,
		"user_input":          a.Input,
	}
}

// Rule is a single policy rule: a typed condition, a target outcome, and a
// message template with ${field} placeholders.
type Rule struct {
	ID        string    `yaml:"id"`
	Condition Condition `yaml:"condition"`
	Outcome   Outcome   `yaml:"outcome"`
	Message   string    `yaml:"message"`
}

// Policy is a named, independently enableable group of rules.
type Policy struct {
	ID          string `yaml:"policy_id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`
	Rules       []Rule `yaml:"rules"`
}

// Finding is a single rule-level result contributing to a verdict.
type Finding struct {
	PolicyID string  `json:"policy_id"`
	RuleID   string  `json:"rule_id"`
	Outcome  Outcome `json:"outcome"`
	Message  string  `json:"message"`
}

// Verdict is the aggregated decision for one evaluation.
type Verdict struct {
	// Outcome is the final decision.
	Outcome Outcome `json:"outcome"`

	// Reason is a human-readable explanation of the outcome.
	Reason string `json:"reason"`

	// Findings is the ordered list of rule-level findings that produced the
	// outcome. Empty when the outcome is approve.
	Findings []Finding `json:"findings"`
}

// Statistics summarizes the engine's evaluation history.
type Statistics struct {
	TotalEvaluations int     `json:"total_evaluations"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
	PendingApproval  int     `json:"pending_approval"`
	Warned           int     `json:"warned"`
	ApprovalRate     float64 `json:"approval_rate"`
}

// Accountant reports running accounted spend for budget rules. The engine
// only ever reads from it.
type Accountant interface {
	// TotalSpend returns the total accounted spend for the current period,
	// in dollars.
	TotalSpend() float64
}
