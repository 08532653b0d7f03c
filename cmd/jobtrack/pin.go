package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/tracker"
)

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle the pinned flag on an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runPin,
}

func init() {
	rootCmd.AddCommand(pinCmd)
}

func runPin(cmd *cobra.Command, args []string) error {
	id, err := mustParseID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	switch sess.store.TogglePin(ctx, id) {
	case tracker.MutationSkipped:
		return fmt.Errorf("application %s not found", id)
	case tracker.MutationRolledBack:
		return fmt.Errorf("pin toggle failed: %s", sess.store.Snapshot().Err)
	}

	app := sess.store.ApplicationByID(id)
	if app != nil && app.IsPinned {
		fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", id)
	}
	return nil
}
