package policy

import (
	"testing"
	"time"
)

var (
	// A Tuesday at noon and a Saturday at noon, for clock-based conditions.
	weekdayNoon = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	saturday    = time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	weekdayNine = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	weekdayFive = time.Date(2026, 8, 25, 17, 0, 0, 0, time.UTC)
)

// TestCondition_Eval exercises every condition variant.
func TestCondition_Eval(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		fields map[string]any
		now    time.Time
		want   bool
	}{
		{
			name: "budget exceeded",
			cond: Condition{Kind: KindBudgetExceeded},
			fields: map[string]any{
				"estimated_cost":       2000.0,
				"current_period_spend": 3500.0,
				"budget_limit":         5000.0,
			},
			want: true,
		},
		{
			name: "budget within limit",
			cond: Condition{Kind: KindBudgetExceeded},
			fields: map[string]any{
				"estimated_cost":       100.0,
				"current_period_spend": 3500.0,
				"budget_limit":         5000.0,
			},
			want: false,
		},
		{
			name:   "budget without limit never fires",
			cond:   Condition{Kind: KindBudgetExceeded},
			fields: map[string]any{"estimated_cost": 1e12},
			want:   false,
		},
		{
			name:   "field_gt fires above threshold",
			cond:   Condition{Kind: KindFieldGreaterThan, Field: "estimated_cost", Threshold: 1000},
			fields: map[string]any{"estimated_cost": 1001.0},
			want:   true,
		},
		{
			name:   "field_gt does not fire at threshold",
			cond:   Condition{Kind: KindFieldGreaterThan, Field: "estimated_cost", Threshold: 1000},
			fields: map[string]any{"estimated_cost": 1000.0},
			want:   false,
		},
		{
			name:   "field_gt missing field counts as zero",
			cond:   Condition{Kind: KindFieldGreaterThan, Field: "requested_instances", Threshold: 10},
			fields: map[string]any{},
			want:   false,
		},
		{
			name:   "field_eq matches",
			cond:   Condition{Kind: KindFieldEquals, Field: "environment", Value: "production"},
			fields: map[string]any{"environment": "production"},
			want:   true,
		},
		{
			name:   "field_eq numeric coercion",
			cond:   Condition{Kind: KindFieldEquals, Field: "budget_limit", Value: "5000"},
			fields: map[string]any{"budget_limit": 5000.0},
			want:   true,
		},
		{
			name:   "field_ne fires on mismatch",
			cond:   Condition{Kind: KindFieldNotEquals, Field: "user_role", Value: "admin"},
			fields: map[string]any{"user_role": "developer"},
			want:   true,
		},
		{
			name:   "field_ne missing field is not equal",
			cond:   Condition{Kind: KindFieldNotEquals, Field: "user_role", Value: "admin"},
			fields: map[string]any{},
			want:   true,
		},
		{
			name: "outside business hours on saturday",
			cond: Condition{Kind: KindOutsideBusinessHours},
			now:  saturday,
			want: true,
		},
		{
			name: "inside business hours on weekday",
			cond: Condition{Kind: KindOutsideBusinessHours},
			now:  weekdayNoon,
			want: false,
		},
		{
			name: "nine sharp is inside business hours",
			cond: Condition{Kind: KindOutsideBusinessHours},
			now:  weekdayNine,
			want: false,
		},
		{
			name: "five sharp is outside business hours",
			cond: Condition{Kind: KindOutsideBusinessHours},
			now:  weekdayFive,
			want: true,
		},
		{
			name:   "context override wins over clock",
			cond:   Condition{Kind: KindOutsideBusinessHours},
			fields: map[string]any{"is_business_hours": false},
			now:    weekdayNoon,
			want:   true,
		},
		{
			name: "all requires every sub-condition",
			cond: Condition{Kind: KindAll, All: []Condition{
				{Kind: KindFieldEquals, Field: "action_type", Value: "admin"},
				{Kind: KindFieldNotEquals, Field: "user_role", Value: "admin"},
			}},
			fields: map[string]any{"action_type": "admin", "user_role": "admin"},
			want:   false,
		},
		{
			name: "all fires when every sub-condition fires",
			cond: Condition{Kind: KindAll, All: []Condition{
				{Kind: KindFieldEquals, Field: "action_type", Value: "admin"},
				{Kind: KindFieldNotEquals, Field: "user_role", Value: "admin"},
			}},
			fields: map[string]any{"action_type": "admin", "user_role": "developer"},
			want:   true,
		},
		{
			name: "empty all never fires",
			cond: Condition{Kind: KindAll},
			want: false,
		},
		{
			name: "unknown kind never fires",
			cond: Condition{Kind: "mystery"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.fields
			if fields == nil {
				fields = map[string]any{}
			}
			if got := tt.cond.Eval(fields, tt.now); got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCondition_Validate verifies structural validation.
func TestCondition_Validate(t *testing.T) {
	valid := []Condition{
		{Kind: KindBudgetExceeded},
		{Kind: KindOutsideBusinessHours},
		{Kind: KindFieldGreaterThan, Field: "estimated_cost", Threshold: 10},
		{Kind: KindFieldEquals, Field: "environment", Value: "production"},
		{Kind: KindAll, All: []Condition{{Kind: KindBudgetExceeded}}},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", c, err)
		}
	}

	invalid := []Condition{
		{},
		{Kind: "mystery"},
		{Kind: KindFieldGreaterThan},
		{Kind: KindFieldEquals, Field: "environment"},
		{Kind: KindFieldNotEquals, Value: "admin"},
		{Kind: KindAll},
		{Kind: KindAll, All: []Condition{{Kind: KindFieldEquals}}},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}

// TestToString verifies float rendering for templates.
func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"production", "production"},
		{5000.0, "5000"},
		{12.5, "12.5"},
		{7, "7"},
	}
	for _, tt := range tests {
		if got := toString(tt.in); got != tt.want {
			t.Errorf("toString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
