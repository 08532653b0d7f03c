package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekaraca/jobtrack/internal/prefs"
	"github.com/ekaraca/jobtrack/internal/tracker"
	"github.com/ekaraca/jobtrack/internal/types"
)

var (
	listSearch       string
	listStatuses     []string
	listWorkTypes    []string
	listSources      []string
	listIndustries   []string
	listPinned       string
	listHideRejected bool
	listFrom         string
	listTo           string
	listSortBy       string
	listSortOrder    string
	listView         string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications with search, filters and sorting",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive search across company, position, location, industry and notes")
	listCmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (repeatable)")
	listCmd.Flags().StringSliceVar(&listWorkTypes, "work-type", nil, "Filter by work type (repeatable)")
	listCmd.Flags().StringSliceVar(&listSources, "source", nil, "Filter by source (repeatable)")
	listCmd.Flags().StringSliceVar(&listIndustries, "industry", nil, "Filter by industry (repeatable)")
	listCmd.Flags().StringVar(&listPinned, "pinned", "", "Filter by pinned state: true or false")
	listCmd.Flags().BoolVar(&listHideRejected, "hide-rejected", false, "Hide rejected applications")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest application date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest application date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listSortBy, "sort-by", "", "Sort field: applicationDate, companyName, status, createdAt, updatedAt")
	listCmd.Flags().StringVar(&listSortOrder, "sort-order", "", "Sort order: asc or desc")
	listCmd.Flags().StringVar(&listView, "view", "", "View mode: list or kanban (persisted as the default)")
	rootCmd.AddCommand(listCmd)
}

func buildListQuery() (types.FilterOptions, types.SortOptions, error) {
	var filters types.FilterOptions

	for _, v := range listStatuses {
		status := types.Status(v)
		if !status.Valid() {
			return filters, types.SortOptions{}, fmt.Errorf("unknown status %q", v)
		}
		filters.Status = append(filters.Status, status)
	}
	for _, v := range listWorkTypes {
		workType := types.WorkType(v)
		if !workType.Valid() {
			return filters, types.SortOptions{}, fmt.Errorf("unknown work type %q", v)
		}
		filters.WorkType = append(filters.WorkType, workType)
	}
	filters.Source = listSources
	filters.Industry = listIndustries
	filters.HideRejected = listHideRejected

	switch listPinned {
	case "":
	case "true", "false":
		pinned := listPinned == "true"
		filters.IsPinned = &pinned
	default:
		return filters, types.SortOptions{}, fmt.Errorf("--pinned must be true or false")
	}

	if listFrom != "" {
		from, err := types.ParseDate(listFrom)
		if err != nil {
			return filters, types.SortOptions{}, fmt.Errorf("invalid --from date: %w", err)
		}
		filters.DateRange.From = from
	}
	if listTo != "" {
		to, err := types.ParseDate(listTo)
		if err != nil {
			return filters, types.SortOptions{}, fmt.Errorf("invalid --to date: %w", err)
		}
		filters.DateRange.To = to
	}

	sortOpts := types.DefaultSort()
	if listSortBy != "" {
		sortOpts.Field = types.SortField(listSortBy)
	}
	if listSortOrder != "" {
		sortOpts.Order = types.SortOrder(listSortOrder)
	}

	return filters, sortOpts, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	filters, sortOpts, err := buildListQuery()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.store.SetSearchQuery(listSearch)
	sess.store.SetFilters(filters)
	sess.store.SetSort(sortOpts)

	mode := sess.prefs.ViewMode()
	if listView != "" {
		mode = prefs.ViewMode(listView)
		if !mode.Valid() {
			return fmt.Errorf("--view must be list or kanban")
		}
		if err := sess.prefs.SetViewMode(mode); err != nil {
			return err
		}
	}

	if mode == prefs.ViewKanban {
		renderBoard(cmd.OutOrStdout(), sess.store.Board())
		return nil
	}
	renderList(cmd.OutOrStdout(), sess.store.View())
	return nil
}

func renderList(out io.Writer, apps []types.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(out, "No applications found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPIN\tCOMPANY\tPOSITION\tSTATUS\tAPPLIED\tLOCATION")
	for _, app := range apps {
		pin := ""
		if app.IsPinned {
			pin = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, pin, app.CompanyName, app.Position,
			types.StatusLabels[app.Status], app.ApplicationDate, app.CompanyLocation)
	}
	w.Flush()
}

func renderBoard(out io.Writer, columns []tracker.StatusGroup) {
	for _, col := range columns {
		fmt.Fprintf(out, "%s (%d)\n", types.StatusLabels[col.Status], len(col.Applications))
		for _, app := range col.Applications {
			pin := "  "
			if app.IsPinned {
				pin = "* "
			}
			fmt.Fprintf(out, "  %s%s - %s  [%s]\n", pin, app.CompanyName, app.Position, app.ID)
		}
	}
}
