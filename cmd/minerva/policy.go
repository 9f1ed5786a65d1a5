package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentinel-hq/minerva/pkg/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate policies",
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded policies and their rules",
	RunE:  runPolicyList,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all policy documents in the policy directory",
	RunE:  runPolicyValidate,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyValidateCmd)
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	policies, err := policy.LoadDir(cfg.Policy.Dir, logger)
	if err != nil {
		return err
	}

	for _, pol := range policies {
		state := "enabled"
		if !pol.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s  %s (%s, %d rules)\n", pol.ID, pol.Name, state, len(pol.Rules))
		for _, rule := range pol.Rules {
			fmt.Printf("    %-24s %-17s %s\n", rule.ID, rule.Outcome, rule.Message)
		}
	}
	return nil
}

func runPolicyValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	policies, err := policy.LoadDir(cfg.Policy.Dir, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, pol := range policies {
		if err := policy.ValidatePolicy(pol); err != nil {
			fmt.Printf("✗ %s: %v\n", pol.ID, err)
			failed++
			continue
		}
		fmt.Printf("✓ %s\n", pol.ID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d policies failed validation", failed, len(policies))
	}
	fmt.Printf("%d policies valid\n", len(policies))
	return nil
}
