package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/tracker"
)

var notesCmd = &cobra.Command{
	Use:   "notes <id> [text...]",
	Short: "Replace the notes on an application (no text clears them)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	id, err := mustParseID(args[0])
	if err != nil {
		return err
	}
	notes := strings.Join(args[1:], " ")

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	switch sess.store.SetNotes(ctx, id, notes) {
	case tracker.MutationSkipped:
		return fmt.Errorf("application %s not found", id)
	case tracker.MutationRolledBack:
		return fmt.Errorf("notes update failed: %s", sess.store.Snapshot().Err)
	}

	if strings.TrimSpace(notes) == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared notes on %s\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated notes on %s\n", id)
	}
	return nil
}
