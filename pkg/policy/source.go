package policy

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDir loads all policy documents (*.yaml, *.yml) from a directory.
//
// If the directory does not exist or contains no policy documents, the
// built-in default policy set is written to it first. Policies are returned
// sorted by policy ID so evaluation order is stable regardless of filesystem
// enumeration order.
func LoadDir(dir string, logger *slog.Logger) ([]Policy, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "policy.source")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create policy directory %q: %w", dir, err)
	}

	paths, err := policyFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.Info("no policy documents found, writing default policy set", "dir", dir)
		if err := WriteDefaultPolicies(dir); err != nil {
			return nil, err
		}
		if paths, err = policyFiles(dir); err != nil {
			return nil, err
		}
	}

	var policies []Policy
	for _, path := range paths {
		pol, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load policy %q: %w", path, err)
		}
		policies = append(policies, pol)
	}

	// Lexical policy-ID order keeps evaluation deterministic.
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].ID < policies[j].ID
	})

	logger.Info("loaded policies",
		"dir", dir,
		"policy_count", len(policies),
	)
	return policies, nil
}

// policyFiles lists policy documents in dir, sorted by name.
func policyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy directory %q: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// loadFile parses and validates a single policy document.
func loadFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, err
	}

	// Absent enabled flags default to true, matching the documented
	// policy-document contract.
	pol := Policy{Enabled: true}
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return Policy{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := ValidatePolicy(pol); err != nil {
		return Policy{}, err
	}
	return pol, nil
}

// ValidatePolicy checks structural validity of a policy document.
func ValidatePolicy(pol Policy) error {
	if pol.ID == "" {
		return fmt.Errorf("policy_id is required")
	}
	if len(pol.Rules) == 0 {
		return fmt.Errorf("policy %q has no rules", pol.ID)
	}
	for _, rule := range pol.Rules {
		if rule.ID == "" {
			return fmt.Errorf("policy %q has a rule without an id", pol.ID)
		}
		switch rule.Outcome {
		case OutcomeReject, OutcomeRequireApproval, OutcomeWarn:
		case OutcomeApprove:
			return fmt.Errorf("policy %q rule %q: approve is not a valid rule outcome", pol.ID, rule.ID)
		default:
			return fmt.Errorf("policy %q rule %q: unknown outcome %q", pol.ID, rule.ID, rule.Outcome)
		}
		if err := rule.Condition.Validate(); err != nil {
			return fmt.Errorf("policy %q rule %q: %w", pol.ID, rule.ID, err)
		}
	}
	return nil
}

// DefaultPolicies returns the built-in policy set: budget caps, access
// control, and operational limits.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			ID:          "ACCESS_001",
			Name:        "Access Control",
			Description: "Enforce permission-based access control",
			Enabled:     true,
			Rules: []Rule{
				{
					ID: "admin_only",
					Condition: Condition{Kind: KindAll, All: []Condition{
						{Kind: KindFieldEquals, Field: "action_type", Value: "admin"},
						{Kind: KindFieldNotEquals, Field: "user_role", Value: "admin"},
					}},
					Outcome: OutcomeReject,
					Message: "Administrative actions require admin role",
				},
				{
					ID:        "production_approval",
					Condition: Condition{Kind: KindFieldEquals, Field: "environment", Value: "production"},
					Outcome:   OutcomeRequireApproval,
					Message:   "Production changes require approval",
				},
			},
		},
		{
			ID:          "BUDGET_001",
			Name:        "Period Cost Cap",
			Description: "Prevent actions that exceed the period budget",
			Enabled:     true,
			Rules: []Rule{
				{
					ID:        "budget_hard_limit",
					Condition: Condition{Kind: KindBudgetExceeded},
					Outcome:   OutcomeReject,
					Message:   "Action would exceed period budget of $${budget_limit}",
				},
				{
					ID:        "high_cost_approval",
					Condition: Condition{Kind: KindFieldGreaterThan, Field: "estimated_cost", Threshold: 1000},
					Outcome:   OutcomeRequireApproval,
					Message:   "High-cost action ($${estimated_cost}) requires manual approval",
				},
				{
					ID:        "cost_warning",
					Condition: Condition{Kind: KindFieldGreaterThan, Field: "estimated_cost", Threshold: 500},
					Outcome:   OutcomeWarn,
					Message:   "High-cost action detected: $${estimated_cost}",
				},
			},
		},
		{
			ID:          "OPERATIONAL_001",
			Name:        "Operational Limits",
			Description: "Enforce resource and operational constraints",
			Enabled:     true,
			Rules: []Rule{
				{
					ID:        "max_instances",
					Condition: Condition{Kind: KindFieldGreaterThan, Field: "requested_instances", Threshold: 10},
					Outcome:   OutcomeReject,
					Message:   "Cannot provision more than 10 instances",
				},
				{
					ID: "business_hours",
					Condition: Condition{Kind: KindAll, All: []Condition{
						{Kind: KindOutsideBusinessHours},
						{Kind: KindFieldEquals, Field: "action_type", Value: "deploy"},
					}},
					Outcome: OutcomeWarn,
					Message: "Deployment outside business hours",
				},
			},
		},
	}
}

// WriteDefaultPolicies writes the built-in policy set as one YAML document
// per policy into dir.
func WriteDefaultPolicies(dir string) error {
	for _, pol := range DefaultPolicies() {
		data, err := yaml.Marshal(pol)
		if err != nil {
			return fmt.Errorf("failed to marshal policy %q: %w", pol.ID, err)
		}
		name := strings.ToLower(pol.ID) + ".yaml"
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write policy %q: %w", path, err)
		}
	}
	return nil
}
