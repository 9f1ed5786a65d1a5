package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sentinel-hq/minerva/pkg/audit"
)

var reportFlags struct {
	auditDir string
	output   string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an audit report from recorded partitions",
	Long: `Read day-partitioned audit logs from disk and render a summary report:
event counts, type and severity distributions, and recent high-severity
events.

Examples:
  minerva report
  minerva report --audit-dir /var/lib/minerva/audit_logs --output report.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFlags.auditDir, "audit-dir", "", "audit partition directory (default from config)")
	reportCmd.Flags().StringVarP(&reportFlags.output, "output", "o", "", "write the report to a file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	dir := reportFlags.auditDir
	if dir == "" {
		dir = cfg.Audit.Dir
	}

	events, err := audit.ReadPartitions(dir)
	if err != nil {
		return fmt.Errorf("failed to read audit partitions: %w", err)
	}

	report := audit.RenderReport(events)
	if reportFlags.output != "" {
		if err := os.WriteFile(reportFlags.output, []byte(report), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("report written to %s (%d events)\n", reportFlags.output, len(events))
		return nil
	}

	fmt.Print(report)
	return nil
}
