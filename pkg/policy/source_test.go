package policy

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDir_SeedsDefaults verifies that an empty directory is seeded with
// the default policy set.
func TestLoadDir_SeedsDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "policies")

	policies, err := LoadDir(dir, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(policies) != 3 {
		t.Fatalf("expected 3 default policies, got %d", len(policies))
	}

	// Lexical ID order.
	wantIDs := []string{"ACCESS_001", "BUDGET_001", "OPERATIONAL_001"}
	for i, want := range wantIDs {
		if policies[i].ID != want {
			t.Errorf("policies[%d].ID = %s, want %s", i, policies[i].ID, want)
		}
	}

	// The documents exist on disk and reload identically.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 policy files, got %d", len(entries))
	}

	again, err := LoadDir(dir, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("reload returned %d policies", len(again))
	}
}

// TestLoadDir_EnabledDefaultsTrue verifies that a document without an
// enabled flag loads enabled.
func TestLoadDir_EnabledDefaultsTrue(t *testing.T) {
	dir := t.TempDir()
	doc := `policy_id: CUSTOM_001
name: Custom
rules:
  - id: no_admin
    condition:
      kind: field_eq
      field: action_type
      value: admin
    outcome: reject
    message: no admin actions
`
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	policies, err := LoadDir(dir, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	if !policies[0].Enabled {
		t.Error("absent enabled flag must default to true")
	}

	// An explicit enabled: false survives.
	doc2 := `policy_id: CUSTOM_002
name: Disabled
enabled: false
rules:
  - id: r1
    condition:
      kind: budget_exceeded
    outcome: reject
    message: over budget
`
	if err := os.WriteFile(filepath.Join(dir, "disabled.yaml"), []byte(doc2), 0o644); err != nil {
		t.Fatal(err)
	}
	policies, err = LoadDir(dir, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	for _, pol := range policies {
		if pol.ID == "CUSTOM_002" && pol.Enabled {
			t.Error("explicit enabled: false was not honored")
		}
	}
}

// TestLoadDir_RejectsInvalidDocuments verifies validation at load time.
func TestLoadDir_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"missing policy_id",
			"name: broken\nrules:\n  - id: r1\n    condition: {kind: budget_exceeded}\n    outcome: reject\n    message: m\n",
		},
		{
			"no rules",
			"policy_id: P1\nname: broken\n",
		},
		{
			"approve as rule outcome",
			"policy_id: P1\nrules:\n  - id: r1\n    condition: {kind: budget_exceeded}\n    outcome: approve\n    message: m\n",
		},
		{
			"unknown condition kind",
			"policy_id: P1\nrules:\n  - id: r1\n    condition: {kind: mystery}\n    outcome: reject\n    message: m\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "p.yaml"), []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadDir(dir, nil); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

// TestDefaultPolicies_Valid verifies the built-in set passes its own
// validation.
func TestDefaultPolicies_Valid(t *testing.T) {
	for _, pol := range DefaultPolicies() {
		if err := ValidatePolicy(pol); err != nil {
			t.Errorf("default policy %s invalid: %v", pol.ID, err)
		}
	}
}
