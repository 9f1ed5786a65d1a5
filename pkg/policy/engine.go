package policy

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Engine evaluates proposed actions against the loaded policy set.
//
// The policy set is fixed at construction. Evaluate is a pure function of
// its inputs, the policy set, and the current Accountant reading; it never
// mutates the action or the caller's context.
type Engine struct {
	policies   []Policy
	accountant Accountant
	logger     *slog.Logger

	// now is the clock used for time-based conditions. Overridable in tests.
	now func() time.Time

	// mu protects the evaluation counters below.
	mu    sync.Mutex
	total int
	byOut map[Outcome]int
}

// NewEngine creates a policy engine over an immutable policy set.
// The accountant may be nil, in which case budget rules see zero accounted
// spend. Disabled policies are retained but never evaluated.
func NewEngine(policies []Policy, accountant Accountant, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		policies:   policies,
		accountant: accountant,
		logger:     logger.With("component", "policy.engine"),
		now:        time.Now,
		byOut:      make(map[Outcome]int),
	}
}

// Policies returns the loaded policy set. The returned slice is a copy; the
// underlying policies are immutable.
func (e *Engine) Policies() []Policy {
	out := make([]Policy, len(e.policies))
	copy(out, e.policies)
	return out
}

// Evaluate checks a proposed action against every enabled policy.
//
// The first rule whose condition fires with a reject outcome short-circuits
// evaluation and is returned immediately. Require-approval and warn findings
// accumulate; require_approval takes precedence over warn. If no rule fires
// the verdict is approve with an empty finding list.
func (e *Engine) Evaluate(action Action, vc Context) Verdict {
	now := e.now()
	fields := e.mergeFields(action, vc)

	var approvals []Finding
	var warnings []Finding

	for _, pol := range e.policies {
		if !pol.Enabled {
			continue
		}
		for _, rule := range pol.Rules {
			if !rule.Condition.Eval(fields, now) {
				continue
			}

			finding := Finding{
				PolicyID: pol.ID,
				RuleID:   rule.ID,
				Outcome:  rule.Outcome,
				Message:  interpolate(rule.Message, fields),
			}

			switch rule.Outcome {
			case OutcomeReject:
				// First rejection wins; no further rules are checked.
				v := Verdict{
					Outcome:  OutcomeReject,
					Reason:   finding.Message,
					Findings: []Finding{finding},
				}
				e.recordEvaluation(action, v)
				return v
			case OutcomeRequireApproval:
				approvals = append(approvals, finding)
			case OutcomeWarn:
				warnings = append(warnings, finding)
			default:
				e.logger.Warn("rule has invalid outcome, skipping",
					"policy_id", pol.ID,
					"rule_id", rule.ID,
					"outcome", rule.Outcome,
				)
			}
		}
	}

	var v Verdict
	switch {
	case len(approvals) > 0:
		v = Verdict{
			Outcome:  OutcomeRequireApproval,
			Reason:   "action requires manual approval",
			Findings: append(approvals, warnings...),
		}
	case len(warnings) > 0:
		v = Verdict{
			Outcome:  OutcomeWarn,
			Reason:   fmt.Sprintf("%d warning(s) detected", len(warnings)),
			Findings: warnings,
		}
	default:
		v = Verdict{
			Outcome: OutcomeApprove,
			Reason:  "all policies satisfied",
		}
	}

	e.recordEvaluation(action, v)
	return v
}

// mergeFields builds the evaluation field map: action fields, then context
// fields, then engine-injected derived fields. Context keys shadow action
// keys, matching template expectations.
func (e *Engine) mergeFields(action Action, vc Context) map[string]any {
	fields := action.Fields()
	for k, v := range vc {
		fields[k] = v
	}
	if e.accountant != nil {
		fields["current_period_spend"] = e.accountant.TotalSpend()
	}
	return fields
}

// recordEvaluation appends to the internal evaluation log. This log is
// independent of the audit trail and exists only for statistics.
func (e *Engine) recordEvaluation(action Action, v Verdict) {
	e.mu.Lock()
	e.total++
	e.byOut[v.Outcome]++
	e.mu.Unlock()

	e.logger.Debug("policy evaluation",
		"action_type", action.Type,
		"estimated_cost", action.EstimatedCost,
		"environment", action.Environment,
		"outcome", v.Outcome,
		"findings", len(v.Findings),
	)
}

// Statistics returns evaluation counts accumulated since construction.
func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := Statistics{
		TotalEvaluations: e.total,
		Approved:         e.byOut[OutcomeApprove],
		Rejected:         e.byOut[OutcomeReject],
		PendingApproval:  e.byOut[OutcomeRequireApproval],
		Warned:           e.byOut[OutcomeWarn],
	}
	if e.total > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(e.total)
	}
	return stats
}

// interpolate substitutes ${field} placeholders in a message template from
// the evaluation field map. Unknown placeholders are left intact.
func interpolate(template string, fields map[string]any) string {
	if !strings.Contains(template, "${") {
		return template
	}
	msg := template
	for key, value := range fields {
		msg = strings.ReplaceAll(msg, "${"+key+"}", toString(value))
	}
	return msg
}
