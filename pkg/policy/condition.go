package policy

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ConditionKind identifies a condition variant.
type ConditionKind string

const (
	// KindBudgetExceeded fires when estimated_cost plus current_period_spend
	// exceeds the caller-supplied budget_limit. A missing budget_limit means
	// no limit.
	KindBudgetExceeded ConditionKind = "budget_exceeded"

	// KindFieldGreaterThan fires when a numeric field exceeds a threshold.
	KindFieldGreaterThan ConditionKind = "field_gt"

	// KindFieldEquals fires when a field's string form equals a value.
	KindFieldEquals ConditionKind = "field_eq"

	// KindFieldNotEquals fires when a field's string form differs from a
	// value. A missing field counts as not equal.
	KindFieldNotEquals ConditionKind = "field_ne"

	// KindOutsideBusinessHours fires outside Monday-Friday 09:00-17:00.
	// An explicit is_business_hours context field overrides the clock.
	KindOutsideBusinessHours ConditionKind = "outside_business_hours"

	// KindAll fires when every nested condition fires (conjunction).
	KindAll ConditionKind = "all"
)

// Condition is a typed rule predicate evaluated by dispatch over Kind.
// Exactly one variant applies per condition; conjunctions nest via All.
type Condition struct {
	Kind      ConditionKind `yaml:"kind"`
	Field     string        `yaml:"field,omitempty"`
	Value     string        `yaml:"value,omitempty"`
	Threshold float64       `yaml:"threshold,omitempty"`
	All       []Condition   `yaml:"all,omitempty"`
}

// businessHoursStart and businessHoursEnd bound the working day for the
// outside_business_hours variant.
const (
	businessHoursStart = 9
	businessHoursEnd   = 17
)

// Eval reports whether the condition fires against the merged action and
// context fields. now supplies the clock for time-based variants.
func (c Condition) Eval(fields map[string]any, now time.Time) bool {
	switch c.Kind {
	case KindBudgetExceeded:
		cost := toFloat(fields["estimated_cost"], 0)
		spend := toFloat(fields["current_period_spend"], 0)
		limit := toFloat(fields["budget_limit"], math.Inf(1))
		return cost+spend > limit

	case KindFieldGreaterThan:
		return toFloat(fields[c.Field], 0) > c.Threshold

	case KindFieldEquals:
		return toString(fields[c.Field]) == c.Value

	case KindFieldNotEquals:
		return toString(fields[c.Field]) != c.Value

	case KindOutsideBusinessHours:
		if v, ok := fields["is_business_hours"]; ok {
			b, isBool := v.(bool)
			return isBool && !b
		}
		if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
		h := now.Hour()
		return h < businessHoursStart || h >= businessHoursEnd

	case KindAll:
		if len(c.All) == 0 {
			return false
		}
		for _, sub := range c.All {
			if !sub.Eval(fields, now) {
				return false
			}
		}
		return true
	}

	return false
}

// Validate checks that the condition tree is well formed.
func (c Condition) Validate() error {
	switch c.Kind {
	case KindBudgetExceeded, KindOutsideBusinessHours:
		return nil
	case KindFieldGreaterThan:
		if c.Field == "" {
			return fmt.Errorf("%s condition requires a field", c.Kind)
		}
		return nil
	case KindFieldEquals, KindFieldNotEquals:
		if c.Field == "" {
			return fmt.Errorf("%s condition requires a field", c.Kind)
		}
		if c.Value == "" {
			return fmt.Errorf("%s condition requires a value", c.Kind)
		}
		return nil
	case KindAll:
		if len(c.All) == 0 {
			return fmt.Errorf("all condition requires at least one sub-condition")
		}
		for i, sub := range c.All {
			if err := sub.Validate(); err != nil {
				return fmt.Errorf("sub-condition %d: %w", i, err)
			}
		}
		return nil
	case "":
		return fmt.Errorf("condition kind is required")
	default:
		return fmt.Errorf("unknown condition kind %q", c.Kind)
	}
}

// toFloat coerces numeric field values. Non-numeric or missing values fall
// back to def.
func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// toString renders a field value for equality checks and templates.
// Missing values render as the empty string; float values drop trailing
// zeros so templates read "$5000" rather than "$5000.000000".
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
