package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export territories and their history to a spreadsheet",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "territories.xlsx", "File to write")
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	b, err := e.svc.Reports.TerritoryWorkbook(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.WriteFile(reportOutput, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", reportOutput, err)
	}
	e.logger.Info("report written", zap.String("file", reportOutput), zap.Int("bytes", len(b)))
	return nil
}
