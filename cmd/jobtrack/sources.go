package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sourcesAdd    string
	sourcesRemove string

	industriesAdd    string
	industriesRemove string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List or edit the application sources (defaults plus custom entries)",
	RunE:  runSources,
}

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List or edit the company industries (defaults plus custom entries)",
	RunE:  runIndustries,
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesAdd, "add", "", "Add a custom source")
	sourcesCmd.Flags().StringVar(&sourcesRemove, "remove", "", "Remove a custom source (exact match)")
	industriesCmd.Flags().StringVar(&industriesAdd, "add", "", "Add a custom industry")
	industriesCmd.Flags().StringVar(&industriesRemove, "remove", "", "Remove a custom industry (exact match)")
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(industriesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sourcesAdd != "" {
		if err := sess.settings.AddCustomSource(ctx, sourcesAdd); err != nil {
			return err
		}
	}
	if sourcesRemove != "" {
		if err := sess.settings.RemoveCustomSource(ctx, sourcesRemove); err != nil {
			return err
		}
	}

	for _, source := range sess.settings.AllSources() {
		fmt.Fprintln(cmd.OutOrStdout(), source)
	}
	return nil
}

func runIndustries(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if industriesAdd != "" {
		if err := sess.settings.AddCustomIndustry(ctx, industriesAdd); err != nil {
			return err
		}
	}
	if industriesRemove != "" {
		if err := sess.settings.RemoveCustomIndustry(ctx, industriesRemove); err != nil {
			return err
		}
	}

	for _, industry := range sess.settings.AllIndustries() {
		fmt.Fprintln(cmd.OutOrStdout(), industry)
	}
	return nil
}
