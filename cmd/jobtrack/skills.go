package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var skillsLimit int

var skillsCmd = &cobra.Command{
	Use:   "skills <prefix>",
	Short: "Suggest skills from your past applications matching a prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkills,
}

func init() {
	skillsCmd.Flags().IntVar(&skillsLimit, "limit", 10, "Maximum number of suggestions")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, args []string) error {
	if skillsLimit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	skills, err := sess.db.SuggestSkills(ctx, sess.userID, args[0], skillsLimit)
	if err != nil {
		return fmt.Errorf("failed to suggest skills: %w", err)
	}
	if len(skills) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching skills.")
		return nil
	}
	for _, skill := range skills {
		fmt.Fprintln(cmd.OutOrStdout(), skill)
	}
	return nil
}
