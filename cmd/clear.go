package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored collection",
	Long: `Clear removes every collection from the configured store. Take a
backup first; there is no undo.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errors.New("refusing to delete all data without --yes")
	}

	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.Backup.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data deleted")
	return nil
}
