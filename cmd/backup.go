package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export every collection to a JSON document",
	Long: `Backup writes every stored collection to a single JSON document that
restore accepts. Collections that were never written export as empty.

Examples:
  # Print to stdout
  fieldservice backup

  # Write to a file
  fieldservice backup -o backup.json`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "File to write (default: stdout)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(e.logger)
	defer cancel()

	out := cmd.OutOrStdout()
	if backupOutput != "" {
		f, err := os.Create(backupOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", backupOutput, err)
		}
		defer f.Close()
		out = f
	}

	if err := e.svc.Backup.WriteTo(ctx, out); err != nil {
		return err
	}
	if backupOutput != "" {
		e.logger.Info("backup written", zap.String("file", backupOutput))
	}
	return nil
}
