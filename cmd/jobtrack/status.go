package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/tracker"
	"github.com/ekaraca/jobtrack/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an application to a new pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := mustParseID(args[0])
	if err != nil {
		return err
	}
	status := types.Status(args[1])
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", args[1])
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	switch sess.store.SetStatus(ctx, id, status) {
	case tracker.MutationSkipped:
		if sess.store.ApplicationByID(id) == nil {
			return fmt.Errorf("application %s not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Already %s\n", types.StatusLabels[status])
	case tracker.MutationRolledBack:
		return fmt.Errorf("status change failed: %s", sess.store.Snapshot().Err)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", id, types.StatusLabels[status])
	}
	return nil
}
