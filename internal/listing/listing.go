// Package listing holds the in-memory vehicle list of one page view and the
// filter, sort and summary operations over it.
package listing

import (
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/RentalGo/internal/domain"
)

// Snapshot is the immutable working set of a page view.
type Snapshot struct {
	vehicles []domain.DisplayVehicle
}

// NewSnapshot copies vehicles into a new snapshot.
func NewSnapshot(vehicles []domain.DisplayVehicle) Snapshot {
	cp := make([]domain.DisplayVehicle, len(vehicles))
	copy(cp, vehicles)
	return Snapshot{vehicles: cp}
}

// Len returns the number of vehicles in the snapshot.
func (s Snapshot) Len() int {
	return len(s.vehicles)
}

// Vehicles returns a copy of the snapshot in its original order.
func (s Snapshot) Vehicles() []domain.DisplayVehicle {
	cp := make([]domain.DisplayVehicle, len(s.vehicles))
	copy(cp, s.vehicles)
	return cp
}

// Apply derives the ordered view for f. The snapshot itself is unchanged, so
// applying the same state twice gives the same result.
//
// Color is an exact match. Search is a case-insensitive substring match on
// name, type or color. Sorting by price is stable: equal prices keep their
// snapshot order in both directions.
func (s Snapshot) Apply(f domain.FilterState) []domain.DisplayVehicle {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.DisplayVehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if f.Color != "" && v.Color != f.Color {
			continue
		}
		if search != "" && !matches(v, search) {
			continue
		}
		out = append(out, v)
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Colors lists the distinct colors in first-seen order.
func (s Snapshot) Colors() []string {
	seen := make(map[string]struct{}, len(s.vehicles))
	var colors []string
	for _, v := range s.vehicles {
		if _, ok := seen[v.Color]; ok {
			continue
		}
		seen[v.Color] = struct{}{}
		colors = append(colors, v.Color)
	}
	return colors
}

func matches(v domain.DisplayVehicle, needle string) bool {
	return strings.Contains(strings.ToLower(v.Name), needle) ||
		strings.Contains(strings.ToLower(v.Type), needle) ||
		strings.Contains(strings.ToLower(v.Color), needle)
}

// ParseFilter reads the grid controls from query values.
func ParseFilter(q url.Values) domain.FilterState {
	return domain.FilterState{
		Color:  strings.TrimSpace(q.Get("color")),
		Sort:   domain.ParseSortOrder(q.Get("sort")),
		Search: q.Get("q"),
	}
}

// Summarize computes the average daily rate, rounded to two decimals, and the
// per-type counts in first-seen order. It reports false for an empty list.
func Summarize(vehicles []domain.DisplayVehicle) (domain.Stats, bool) {
	if len(vehicles) == 0 {
		return domain.Stats{}, false
	}

	total := decimal.Zero
	index := make(map[string]int)
	var counts []domain.TypeCount
	for _, v := range vehicles {
		total = total.Add(decimal.NewFromFloat(v.Price))
		i, ok := index[v.Type]
		if !ok {
			i = len(counts)
			index[v.Type] = i
			counts = append(counts, domain.TypeCount{Type: v.Type})
		}
		counts[i].Count++
	}

	avg := total.Div(decimal.NewFromInt(int64(len(vehicles)))).Round(2)
	return domain.Stats{
		AveragePrice: avg.InexactFloat64(),
		CountsByType: counts,
		Total:        len(vehicles),
	}, true
}
