package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace stored collections from a backup document",
	Long: `Restore reads a backup document and overwrites every collection it
contains. The document must carry territories, publishers, notices and
cleaningGroups; collections must be arrays and settings an object. Nothing
is written unless the whole document is valid.

Examples:
  fieldservice restore backup.json

  # Read from stdin
  fieldservice restore - < backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext(e.logger)
	defer cancel()

	in := cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	stats, err := e.svc.Backup.ReadFrom(ctx, in)
	if err != nil {
		var ierr *service.ImportValidationError
		if errors.As(err, &ierr) {
			e.logger.Error("backup document rejected",
				zap.Strings("missing", ierr.Missing),
				zap.Strings("invalid", ierr.Invalid),
				zap.String("detail", ierr.Detail),
			)
		}
		return err
	}

	printRestoreSummary(cmd, stats)
	return nil
}

func printRestoreSummary(cmd *cobra.Command, stats *service.RestoreStats) {
	keys := make([]string, 0, len(stats.Written))
	for k := range stats.Written {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Restore complete")
	for _, k := range keys {
		fmt.Fprintf(out, "  %-16s %d\n", k, stats.Written[k])
	}
	if len(stats.Ignored) > 0 {
		fmt.Fprintf(out, "  ignored: %v\n", stats.Ignored)
	}
}
