package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/tracker"
	"github.com/ekaraca/jobtrack/internal/types"
)

var (
	addCompany   string
	addLocation  string
	addIndustry  string
	addPosition  string
	addDate      string
	addSource    string
	addWorkType  string
	addStatus    string
	addSkills    []string
	addNotes     string
	addSalary    string
	addJobURL    string
	addCoverNote string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new application",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCompany, "company", "", "Company name")
	addCmd.Flags().StringVar(&addLocation, "location", "", "Company location")
	addCmd.Flags().StringVar(&addIndustry, "industry", "", "Company industry")
	addCmd.Flags().StringVar(&addPosition, "position", "", "Position title")
	addCmd.Flags().StringVar(&addDate, "date", "", "Application date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addSource, "source", "", "Where the posting was found")
	addCmd.Flags().StringVar(&addWorkType, "work-type", "remote", "Work type: remote, hybrid or onsite")
	addCmd.Flags().StringVar(&addStatus, "status", string(types.StatusApplied), "Initial status")
	addCmd.Flags().StringSliceVar(&addSkills, "skill", nil, "Required skill (repeatable)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringVar(&addSalary, "salary", "", "Salary expectation, free text; normalized to '<currency> <amount>'")
	addCmd.Flags().StringVar(&addJobURL, "url", "", "Job posting URL")
	addCmd.Flags().StringVar(&addCoverNote, "cover-letter", "", "Cover letter text")
	_ = addCmd.MarkFlagRequired("company")
	_ = addCmd.MarkFlagRequired("location")
	_ = addCmd.MarkFlagRequired("industry")
	_ = addCmd.MarkFlagRequired("position")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	date, err := types.ParseDate(addDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	salary := addSalary
	if salary != "" {
		parsed := tracker.ParseSalaryExpectation(salary, sess.cfg.DefaultCurrency)
		salary = tracker.FormatSalaryExpectation(parsed.Currency, parsed.Amount)
	}

	form := types.ApplicationForm{
		CompanyName:       addCompany,
		CompanyLocation:   addLocation,
		CompanyIndustry:   addIndustry,
		Position:          addPosition,
		Skills:            addSkills,
		ApplicationDate:   date,
		CoverLetter:       addCoverNote,
		SalaryExpectation: salary,
		JobPostingURL:     addJobURL,
		Source:            addSource,
		WorkType:          types.WorkType(addWorkType),
		Notes:             addNotes,
		Status:            types.Status(addStatus),
	}

	id, err := sess.store.Add(ctx, &form)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added application %s (%s at %s)\n", id, addPosition, addCompany)
	return nil
}
