package types

// DateRange bounds application dates inclusively on both ends. A zero Date
// on either side leaves that side unbounded.
type DateRange struct {
	From Date `json:"from,omitempty"`
	To   Date `json:"to,omitempty"`
}

// FilterOptions is the session-local query state for the application list.
// Empty lists impose no constraint; dimensions combine as a conjunction
// while values within one list combine as a disjunction.
type FilterOptions struct {
	Status       []Status   `json:"status,omitempty"`
	Source       []string   `json:"source,omitempty"`
	WorkType     []WorkType `json:"work_type,omitempty"`
	Industry     []string   `json:"industry,omitempty"`
	DateRange    DateRange  `json:"date_range,omitempty"`
	IsPinned     *bool      `json:"is_pinned,omitempty"`
	HideRejected bool       `json:"hide_rejected,omitempty"`
}

// IsZero reports whether no filter dimension is active.
func (f FilterOptions) IsZero() bool {
	return len(f.Status) == 0 &&
		len(f.Source) == 0 &&
		len(f.WorkType) == 0 &&
		len(f.Industry) == 0 &&
		f.DateRange.From.IsZero() &&
		f.DateRange.To.IsZero() &&
		f.IsPinned == nil &&
		!f.HideRejected
}

// SortField selects the comparison key for the derived view.
type SortField string

// Sortable fields
const (
	SortByApplicationDate SortField = "applicationDate"
	SortByCompanyName     SortField = "companyName"
	SortByStatus          SortField = "status"
	SortByCreatedAt       SortField = "createdAt"
	SortByUpdatedAt       SortField = "updatedAt"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions is a (field, order) pair.
type SortOptions struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort orders by application date, newest first.
func DefaultSort() SortOptions {
	return SortOptions{Field: SortByApplicationDate, Order: SortDesc}
}
