package odal

import (
	"context"
	"time"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/guard"
	"sentinel-hq/minerva/pkg/policy"
)

// Phase names the state a cycle is in.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseObserve Phase = "observe"
	PhaseDecide  Phase = "decide"
	PhaseAct     Phase = "act"
	PhaseLog     Phase = "log"
)

// Action result statuses.
const (
	// StatusExecuted marks a result produced by a real executor.
	StatusExecuted = "executed"

	// StatusSimulated marks the placeholder result used when no executor is
	// supplied.
	StatusSimulated = "simulated"

	// StatusFailed marks an executor error or cancellation. The failure is
	// recorded; it never alters the cycle's decision.
	StatusFailed = "failed"
)

// Observation is the OBSERVE phase output.
type Observation struct {
	// Guard is the prompt guard's verdict for the cycle input.
	Guard guard.Result `json:"guard"`
}

// Decision is the DECIDE phase output.
type Decision struct {
	// Action is the structured proposal extracted from the input.
	Action policy.Action `json:"action"`

	// Verdict is the policy engine's aggregated decision for the action.
	Verdict policy.Verdict `json:"verdict"`
}

// ActionResult is the ACT phase output.
type ActionResult struct {
	// Status is one of executed, simulated, failed.
	Status string `json:"status"`

	// Output is the executor's result payload; for failures it carries the
	// error text under "error".
	Output map[string]any `json:"output,omitempty"`

	// Duration is the measured execution time.
	Duration time.Duration `json:"duration"`
}

// Cycle is the complete record of one governance cycle. It is built up as
// the phases run and published to history atomically once finished.
type Cycle struct {
	// ID is a UUID assigned when the cycle starts.
	ID string `json:"id"`

	// StartedAt is the UTC start time.
	StartedAt time.Time `json:"started_at"`

	// Duration is the end-to-end cycle duration.
	Duration time.Duration `json:"duration"`

	// Input is the raw triggering input.
	Input string `json:"input"`

	// Outcome is the final cycle decision. WARN verdicts surface here as
	// require_approval.
	Outcome policy.Outcome `json:"outcome"`

	// Reason explains the outcome.
	Reason string `json:"reason"`

	// Observation is set once OBSERVE completes.
	Observation *Observation `json:"observation,omitempty"`

	// Decision is set once DECIDE completes. Nil when OBSERVE rejected the
	// input or a fault preempted the phase.
	Decision *Decision `json:"decision,omitempty"`

	// Result is set when ACT ran (approved cycles only).
	Result *ActionResult `json:"result,omitempty"`
}

// ActionExecutor performs an approved action. Implementations live outside
// the governance core (deployment drivers, orchestration clients).
type ActionExecutor interface {
	// Execute performs the action and returns a result payload. Errors and
	// context cancellation are recorded as failed results, never propagated.
	Execute(ctx context.Context, action policy.Action) (map[string]any, error)
}

// IntentClassifier turns raw input into a structured action proposal.
type IntentClassifier interface {
	Classify(input string) policy.Action
}

// Statistics aggregates engine activity, with the supporting engines'
// statistics nested alongside.
type Statistics struct {
	TotalCycles     int                    `json:"total_cycles"`
	ByOutcome       map[policy.Outcome]int `json:"outcome_distribution"`
	ApprovalRate    float64                `json:"approval_rate"`
	AverageDuration time.Duration          `json:"average_duration"`

	Guard  guard.Statistics  `json:"guard"`
	Policy policy.Statistics `json:"policy"`
	Audit  audit.Statistics  `json:"audit"`
}
