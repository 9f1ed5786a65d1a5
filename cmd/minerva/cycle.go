package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sentinel-hq/minerva/pkg/policy"
)

var cycleFlags struct {
	contextPairs []string
	jsonOutput   bool
}

var cycleCmd = &cobra.Command{
	Use:   "cycle <input>",
	Short: "Run a single governed cycle",
	Long: `Run one governance cycle for the given input and print the result.

The action is never really executed: approved cycles produce a simulated
result. Context fields are supplied as key=value pairs.

Examples:
  minerva cycle "deploy the new web service"
  minerva cycle "scale to 20 instances in production" --context user_role=operator --context budget_limit=5000
  minerva cycle "delete old backups" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)

	cycleCmd.Flags().StringArrayVar(&cycleFlags.contextPairs, "context", nil, "context field as key=value (repeatable)")
	cycleCmd.Flags().BoolVar(&cycleFlags.jsonOutput, "json", false, "print the full cycle record as JSON")
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	vc, err := parseContextPairs(cycleFlags.contextPairs)
	if err != nil {
		return err
	}

	input := strings.Join(args, " ")
	cycle := rt.engine.RunCycle(cmd.Context(), input, vc, nil)

	if cycleFlags.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cycle)
	}

	fmt.Printf("Cycle:    %s\n", cycle.ID)
	fmt.Printf("Outcome:  %s\n", cycle.Outcome)
	fmt.Printf("Reason:   %s\n", cycle.Reason)
	if cycle.Decision != nil {
		a := cycle.Decision.Action
		fmt.Printf("Action:   %s (cost $%.2f, environment %s)\n", a.Type, a.EstimatedCost, a.Environment)
		for _, f := range cycle.Decision.Verdict.Findings {
			fmt.Printf("  - [%s/%s] %s: %s\n", f.PolicyID, f.RuleID, f.Outcome, f.Message)
		}
	}
	if cycle.Result != nil {
		fmt.Printf("Result:   %s (%s)\n", cycle.Result.Status, cycle.Result.Duration)
	}
	fmt.Printf("Duration: %s\n", cycle.Duration)
	return nil
}

// parseContextPairs turns key=value flags into a validation context,
// preferring numeric values where they parse.
func parseContextPairs(pairs []string) (policy.Context, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	vc := make(policy.Context, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context pair %q (expected key=value)", pair)
		}

		if num, err := strconv.ParseFloat(value, 64); err == nil {
			vc[key] = num
			continue
		}
		if b, err := strconv.ParseBool(value); err == nil {
			vc[key] = b
			continue
		}
		vc[key] = value
	}
	return vc, nil
}
