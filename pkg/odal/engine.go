package odal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/guard"
	"sentinel-hq/minerva/pkg/policy"
	"sentinel-hq/minerva/pkg/telemetry/metrics"
)

const (
	// defaultHistoryLimit bounds the in-memory cycle history.
	defaultHistoryLimit = 1000

	// inputPreviewBytes caps how much of the raw input an audit event may
	// carry, so full payloads never leak into the log.
	inputPreviewBytes = 100

	// highCostThreshold marks an action worth a high_cost_action audit
	// event, matching the policy tier that requires approval.
	highCostThreshold = 1000
)

// Options carries the engine's optional collaborators.
type Options struct {
	// Classifier extracts action proposals from input. Default:
	// KeywordClassifier.
	Classifier IntentClassifier

	// Metrics, if set, receives cycle, detection, and verdict counters.
	Metrics *metrics.Collector

	// HistoryLimit bounds the retained cycle history. Default: 1000.
	HistoryLimit int
}

// Engine drives governance cycles through the four phases. One engine
// instance may serve concurrent cycles.
type Engine struct {
	guard      *guard.Guard
	policies   *policy.Engine
	audit      *audit.Recorder
	metrics    *metrics.Collector
	classifier IntentClassifier
	logger     *slog.Logger

	// mu protects the counters and history.
	mu            sync.Mutex
	cycles        int
	byOutcome     map[policy.Outcome]int
	totalDuration time.Duration
	history       []*Cycle
	historyLimit  int
}

// NewEngine wires the engine to its three supporting engines. All three are
// required; governance cannot run without a guard, policies, and an audit
// sink.
func NewEngine(g *guard.Guard, policies *policy.Engine, recorder *audit.Recorder, opts Options, logger *slog.Logger) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("prompt guard is required")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy engine is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Classifier == nil {
		opts.Classifier = KeywordClassifier{}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}

	return &Engine{
		guard:        g,
		policies:     policies,
		audit:        recorder,
		metrics:      opts.Metrics,
		classifier:   opts.Classifier,
		logger:       logger.With("component", "odal"),
		byOutcome:    make(map[policy.Outcome]int),
		historyLimit: opts.HistoryLimit,
	}, nil
}

// RunCycle runs one full governance cycle for the input.
//
// It always returns a well-formed cycle: faults in any phase degrade the
// cycle to a rejection with a system-error reason instead of escaping. The
// executor may be nil, in which case an approved action produces a
// simulated result.
func (e *Engine) RunCycle(ctx context.Context, input string, vc policy.Context, exec ActionExecutor) (cycle *Cycle) {
	start := time.Now()
	cycle = &Cycle{
		ID:        uuid.NewString(),
		StartedAt: start.UTC(),
		Input:     input,
	}

	defer func() {
		if rec := recover(); rec != nil {
			cycle.Outcome = policy.OutcomeReject
			cycle.Reason = fmt.Sprintf("system error: %v", rec)
			e.logger.Error("cycle fault",
				"cycle_id", cycle.ID,
				"panic", rec,
			)
		}
		cycle.Duration = time.Since(start)
		e.logCycle(cycle)
	}()

	if !e.observe(cycle) {
		return cycle
	}
	if !e.decide(cycle, vc) {
		return cycle
	}
	e.act(ctx, cycle, exec)
	return cycle
}

// observe runs the prompt guard. It returns false when the cycle must stop
// here (unsafe input).
func (e *Engine) observe(cycle *Cycle) bool {
	result := e.guard.Validate(cycle.Input, nil)
	cycle.Observation = &Observation{Guard: result}

	if result.Safe {
		return true
	}

	severity := audit.SeverityWarning
	if result.Severity == guard.SeverityHigh || result.Severity == guard.SeverityCritical {
		severity = audit.SeverityError
	}
	e.record(audit.EventPromptInjection, "prompt injection detected", map[string]any{
		"cycle_id":      cycle.ID,
		"score":         result.Score,
		"severity":      string(result.Severity),
		"matches":       len(result.Matches),
		"input_preview": preview(cycle.Input),
	}, severity)

	if e.metrics != nil {
		e.metrics.RecordDetection(string(result.Severity))
	}

	cycle.Outcome = policy.OutcomeReject
	cycle.Reason = "prompt injection detected"
	return false
}

// decide classifies the input and evaluates policies. It returns true only
// when the action was approved and ACT should run.
func (e *Engine) decide(cycle *Cycle, vc policy.Context) bool {
	action := e.classifier.Classify(cycle.Input)
	// The classifier only derives the environment from the input text; a
	// caller-supplied environment wins unless the input names production.
	if env, ok := vc["environment"].(string); ok && env != "" && action.Environment != "production" {
		action.Environment = env
	}
	verdict := e.policies.Evaluate(action, vc)
	cycle.Decision = &Decision{Action: action, Verdict: verdict}

	if e.metrics != nil {
		e.metrics.RecordPolicyEvaluation(string(verdict.Outcome))
	}

	// WARN is advisory at rule level but defers the cycle like an approval
	// requirement.
	outcome := verdict.Outcome
	if outcome == policy.OutcomeWarn {
		outcome = policy.OutcomeRequireApproval
	}
	cycle.Outcome = outcome
	cycle.Reason = verdict.Reason

	if action.EstimatedCost > highCostThreshold {
		e.record(audit.EventHighCostAction, fmt.Sprintf("high cost action proposed: $%.2f", action.EstimatedCost), map[string]any{
			"cycle_id": cycle.ID,
			"action":   action.Fields(),
		}, audit.SeverityWarning)
	}

	switch verdict.Outcome {
	case policy.OutcomeReject:
		first := verdict.Findings[0]
		eventType := audit.EventPolicyViolation
		if strings.HasPrefix(first.PolicyID, "ACCESS") {
			eventType = audit.EventAccessDenied
		}
		e.record(eventType, first.Message, map[string]any{
			"cycle_id":  cycle.ID,
			"policy_id": first.PolicyID,
			"rule_id":   first.RuleID,
			"action":    action.Fields(),
		}, audit.SeverityError)
	case policy.OutcomeApprove:
		e.record(audit.EventPolicyApproval, "action approved by all policies", map[string]any{
			"cycle_id": cycle.ID,
			"action":   action.Fields(),
		}, audit.SeverityInfo)
	}

	e.record(audit.EventDecisionMade, fmt.Sprintf("decision: %s", outcome), map[string]any{
		"cycle_id": cycle.ID,
		"outcome":  string(outcome),
		"reason":   verdict.Reason,
		"findings": verdict.Findings,
	}, audit.SeverityInfo)

	return outcome == policy.OutcomeApprove
}

// act executes the approved action, or simulates it when no executor is
// supplied. Executor failures and cancellations become failed results and
// never alter the decision.
func (e *Engine) act(ctx context.Context, cycle *Cycle, exec ActionExecutor) {
	action := cycle.Decision.Action
	started := time.Now()

	var result ActionResult
	if exec == nil {
		result = ActionResult{
			Status: StatusSimulated,
			Output: map[string]any{"action_type": action.Type},
		}
	} else if output, err := exec.Execute(ctx, action); err != nil {
		result = ActionResult{
			Status: StatusFailed,
			Output: map[string]any{"error": err.Error()},
		}
		e.logger.Warn("action execution failed",
			"cycle_id", cycle.ID,
			"action_type", action.Type,
			"error", err,
		)
	} else {
		result = ActionResult{Status: StatusExecuted, Output: output}
	}
	result.Duration = time.Since(started)
	cycle.Result = &result

	severity := audit.SeverityInfo
	if result.Status == StatusFailed {
		severity = audit.SeverityWarning
	}
	e.record(audit.EventActionExecuted, fmt.Sprintf("action %s: %s", action.Type, result.Status), map[string]any{
		"cycle_id":    cycle.ID,
		"status":      result.Status,
		"output":      result.Output,
		"duration_ms": result.Duration.Milliseconds(),
	}, severity)
}

// logCycle is the closing phase: it emits the cycle-level summary event,
// updates counters, and publishes the finished cycle to history.
func (e *Engine) logCycle(cycle *Cycle) {
	metadata := map[string]any{
		"cycle_id":    cycle.ID,
		"outcome":     string(cycle.Outcome),
		"reason":      cycle.Reason,
		"duration_ms": cycle.Duration.Milliseconds(),
	}
	if cycle.Decision != nil {
		metadata["findings"] = cycle.Decision.Verdict.Findings
	}
	e.record(audit.EventDecisionMade, fmt.Sprintf("cycle completed: %s", cycle.Outcome), metadata, audit.SeverityInfo)

	if e.metrics != nil {
		e.metrics.RecordCycle(string(cycle.Outcome), cycle.Duration)
	}

	e.mu.Lock()
	e.cycles++
	e.byOutcome[cycle.Outcome]++
	e.totalDuration += cycle.Duration
	e.history = append(e.history, cycle)
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
	e.mu.Unlock()

	e.logger.Info("cycle completed",
		"cycle_id", cycle.ID,
		"outcome", cycle.Outcome,
		"duration_ms", cycle.Duration.Milliseconds(),
	)
}

// record appends an audit event, logging rather than failing the cycle on
// a storage error.
func (e *Engine) record(t audit.EventType, description string, metadata map[string]any, severity audit.Severity) {
	if _, err := e.audit.Record(t, description, metadata, severity); err != nil {
		e.logger.Error("audit record failed",
			"event_type", t,
			"error", err,
		)
	}
}

// History returns a snapshot of the retained cycles, oldest first.
func (e *Engine) History() []*Cycle {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Cycle, len(e.history))
	copy(out, e.history)
	return out
}

// Statistics aggregates the engine's counters with the supporting engines'
// statistics.
func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	stats := Statistics{
		TotalCycles: e.cycles,
		ByOutcome:   make(map[policy.Outcome]int, len(e.byOutcome)),
	}
	for k, v := range e.byOutcome {
		stats.ByOutcome[k] = v
	}
	if e.cycles > 0 {
		stats.ApprovalRate = float64(e.byOutcome[policy.OutcomeApprove]) / float64(e.cycles)
		stats.AverageDuration = e.totalDuration / time.Duration(e.cycles)
	}
	e.mu.Unlock()

	stats.Guard = e.guard.Statistics()
	stats.Policy = e.policies.Statistics()
	stats.Audit = e.audit.Statistics()
	return stats
}

// preview truncates input for audit metadata, never splitting a rune.
func preview(s string) string {
	if len(s) <= inputPreviewBytes {
		return s
	}
	cut := inputPreviewBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
