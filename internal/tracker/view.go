package tracker

import (
	"sort"
	"strings"
	"time"

	"github.com/ekaraca/jobtrack/internal/types"
)

// DeriveView computes the presented subset and order of records from the
// full list and the current query state. It is pure: identical inputs give
// identical output and the input slice is never mutated.
func DeriveView(apps []types.Application, query string, filters types.FilterOptions, sortOpts types.SortOptions) []types.Application {
	filtered := make([]types.Application, 0, len(apps))

	query = strings.ToLower(strings.TrimSpace(query))
	for _, app := range apps {
		if query != "" && !matchesSearch(app, query) {
			continue
		}
		if !matchesFilters(app, filters) {
			continue
		}
		filtered = append(filtered, app)
	}

	sortApplications(filtered, sortOpts)
	return filtered
}

// matchesSearch is a case-insensitive substring match across company name,
// position, location, industry and notes; any one field matching retains
// the record.
func matchesSearch(app types.Application, query string) bool {
	for _, field := range []string{
		app.CompanyName,
		app.Position,
		app.CompanyLocation,
		app.CompanyIndustry,
		app.Notes,
	} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// matchesFilters applies the categorical, date-range, pinned and
// hide-rejected dimensions as a conjunction. An empty list imposes no
// constraint.
func matchesFilters(app types.Application, f types.FilterOptions) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, app.Status) {
		return false
	}
	if len(f.Source) > 0 && !containsString(f.Source, app.Source) {
		return false
	}
	if len(f.WorkType) > 0 && !containsWorkType(f.WorkType, app.WorkType) {
		return false
	}
	if len(f.Industry) > 0 && !containsString(f.Industry, app.CompanyIndustry) {
		return false
	}
	if !f.DateRange.From.IsZero() && app.ApplicationDate.Before(f.DateRange.From) {
		return false
	}
	if !f.DateRange.To.IsZero() && app.ApplicationDate.After(f.DateRange.To) {
		return false
	}
	if f.IsPinned != nil && app.IsPinned != *f.IsPinned {
		return false
	}
	if f.HideRejected && app.Status == types.StatusRejected {
		return false
	}
	return true
}

// sortApplications orders the slice in place. Pinned records form a strict
// leading partition regardless of the chosen field; within each partition
// the configured field and order apply. An unsupported field compares as
// equal, which keeps the sort a stable no-op.
func sortApplications(apps []types.Application, opts types.SortOptions) {
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i], apps[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}

		cmp := compareByField(a, b, opts.Field)
		if cmp == 0 {
			return false
		}
		if opts.Order == types.SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareByField(a, b types.Application, field types.SortField) int {
	switch field {
	case types.SortByApplicationDate:
		return compareTimes(a.ApplicationDate.Time, b.ApplicationDate.Time)
	case types.SortByCreatedAt:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case types.SortByUpdatedAt:
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	case types.SortByCompanyName:
		return compareStrings(a.CompanyName, b.CompanyName)
	case types.SortByStatus:
		return compareStrings(string(a.Status), string(b.Status))
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// compareStrings folds case so ordering matches what a user expects from a
// locale-aware comparison of latin company names.
func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsStatus(list []types.Status, v types.Status) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsWorkType(list []types.WorkType, v types.WorkType) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// StatusGroup is one kanban column: a status and the records currently in
// it, in view order.
type StatusGroup struct {
	Status       types.Status        `json:"status"`
	Applications []types.Application `json:"applications"`
}

// GroupByStatus partitions records into kanban columns in the canonical
// pipeline order. Every column is present even when empty.
func GroupByStatus(apps []types.Application) []StatusGroup {
	byStatus := make(map[types.Status][]types.Application, len(types.StatusOrder))
	for _, app := range apps {
		byStatus[app.Status] = append(byStatus[app.Status], app)
	}

	groups := make([]StatusGroup, 0, len(types.StatusOrder))
	for _, status := range types.StatusOrder {
		column := byStatus[status]
		if column == nil {
			column = []types.Application{}
		}
		groups = append(groups, StatusGroup{Status: status, Applications: column})
	}
	return groups
}
