package guard

import "time"

// Category identifies a class of prompt-injection attack.
type Category string

const (
	CategoryRoleConfusion       Category = "role_confusion"
	CategoryCommandOverride     Category = "command_override"
	CategoryContextManipulation Category = "context_manipulation"
	CategoryInstructionBypass   Category = "instruction_bypass"
	CategoryDataExfiltration    Category = "data_exfiltration"
)

// Severity is the discrete threat tier derived from the detection score.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// categoryWeights assigns the per-match score contribution for each attack
// category. Heavier weights mark categories whose successful exploitation
// is more damaging.
var categoryWeights = map[Category]int{
	CategoryRoleConfusion:       3,
	CategoryCommandOverride:     4,
	CategoryContextManipulation: 2,
	CategoryInstructionBypass:   4,
	CategoryDataExfiltration:    5,
}

// Weight returns the score contribution for a category. Unknown categories
// weigh 1.
func Weight(c Category) int {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return 1
}

// severityForScore maps a cumulative score to its tier.
func severityForScore(score int) Severity {
	switch {
	case score >= 10:
		return SeverityCritical
	case score >= 7:
		return SeverityHigh
	case score >= 4:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Match records a single pattern hit within the scanned input.
type Match struct {
	// Category is the attack category of the matching pattern.
	Category Category `json:"category"`

	// Pattern is the source expression that matched.
	Pattern string `json:"pattern"`

	// Text is the matched substring.
	Text string `json:"match"`

	// Start and End delimit the match span in bytes.
	Start int `json:"start"`
	End   int `json:"end"`

	// Weight is the score contribution of this match.
	Weight int `json:"weight"`
}

// Result is the outcome of a single validation call.
type Result struct {
	// Safe is the verdict: true iff Score < Threshold.
	Safe bool `json:"is_safe"`

	// Score is the cumulative weighted match score.
	Score int `json:"severity_score"`

	// Severity is the tier derived from Score.
	Severity Severity `json:"severity_level"`

	// Matches lists every pattern hit, in scan order. Overlapping matches
	// are all counted; there is no per-category cap.
	Matches []Match `json:"detected_patterns"`

	// Threshold is the configured unsafe boundary used for this call.
	Threshold int `json:"threshold"`

	// InputLength is the byte length of the scanned input.
	InputLength int `json:"input_length"`

	// Timestamp is when the validation ran.
	Timestamp time.Time `json:"timestamp"`
}

// Statistics summarizes detections since construction. Safe validations are
// counted but do not appear in the severity distribution.
type Statistics struct {
	TotalValidations     int              `json:"total_validations"`
	TotalDetections      int              `json:"total_detections"`
	SeverityDistribution map[Severity]int `json:"severity_distribution"`
	LastDetection        time.Time        `json:"last_detection,omitempty"`
}
