package domain

// SortOrder selects how the grid is ordered.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder maps a form value to a SortOrder; unknown values mean no sort.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// FilterState is the grid's filter controls. The zero value shows the
// snapshot unchanged.
type FilterState struct {
	Color  string    `json:"color,omitempty"`
	Sort   SortOrder `json:"sort,omitempty"`
	Search string    `json:"q,omitempty"`
}

// TypeCount is one row of the per-type breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Stats summarizes a snapshot.
type Stats struct {
	AveragePrice float64     `json:"average_price"`
	CountsByType []TypeCount `json:"counts_by_type"`
	Total        int         `json:"total"`
}
