package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite stored data in canonical form",
	Long: `Migrate rewrites territories, area documents and schedules written by
older clients: status labels become canonical, dates are normalized to
yyyy-MM-dd and assignee or captain names are resolved to publisher ids.

Examples:
  # Show what would change
  fieldservice migrate --dry-run

  fieldservice migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report without writing")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(e.logger)
	defer cancel()

	report, err := e.svc.Migrator.Run(ctx, migrateDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.DryRun {
		fmt.Fprintln(out, "Dry run, nothing written")
	}
	fmt.Fprintf(out, "Territories:        %d\n", report.Territories)
	fmt.Fprintf(out, "Area documents:     %d\n", report.Areas)
	fmt.Fprintf(out, "Schedules:          %d\n", report.Schedules)
	fmt.Fprintf(out, "Assignees resolved: %d\n", report.ResolvedAssignees)
	fmt.Fprintf(out, "Captains resolved:  %d\n", report.ResolvedCaptains)
	if len(report.Unresolved) > 0 {
		fmt.Fprintln(out, "Unresolved names:")
		for _, name := range report.Unresolved {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}
	return nil
}
