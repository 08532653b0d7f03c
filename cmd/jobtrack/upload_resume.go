package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume <id> <file.pdf>",
	Short: "Attach a PDF resume to an application",
	Args:  cobra.ExactArgs(2),
	RunE:  runUploadResume,
}

func init() {
	rootCmd.AddCommand(uploadResumeCmd)
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	id, err := mustParseID(args[0])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	path, err := sess.store.UploadResume(ctx, id, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored resume at %s\n", path)
	return nil
}
