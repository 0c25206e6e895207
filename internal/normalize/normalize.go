// Package normalize turns raw catalog records into display vehicles.
package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/RentalGo/internal/domain"
)

// Palette is an ordered list of placeholder image URLs.
type Palette []string

// At returns the image for position i, wrapping around the palette.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return ""
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

var (
	teaserImages = Palette{
		"https://placehold.co/200x150/3498db/ffffff?text=Car+1",
		"https://placehold.co/200x150/e74c3c/ffffff?text=Car+2",
		"https://placehold.co/200x150/2ecc71/ffffff?text=Car+3",
		"https://placehold.co/200x150/f39c12/ffffff?text=Car+4",
		"https://placehold.co/200x150/9b59b6/ffffff?text=Car+5",
		"https://placehold.co/200x150/1abc9c/ffffff?text=Car+6",
	}

	gridImages = Palette{
		"https://placehold.co/400x300/3498db/ffffff?text=Sedan",
		"https://placehold.co/400x300/e74c3c/ffffff?text=SUV",
		"https://placehold.co/400x300/2ecc71/ffffff?text=Luxury",
		"https://placehold.co/400x300/f39c12/ffffff?text=Sports",
		"https://placehold.co/400x300/9b59b6/ffffff?text=Convertible",
		"https://placehold.co/400x300/1abc9c/ffffff?text=Hatchback",
		"https://placehold.co/400x300/34495e/ffffff?text=Coupe",
		"https://placehold.co/400x300/e67e22/ffffff?text=Van",
		"https://placehold.co/400x300/95a5a6/ffffff?text=Truck",
		"https://placehold.co/400x300/c0392b/ffffff?text=Crossover",
		"https://placehold.co/400x300/16a085/ffffff?text=Compact",
		"https://placehold.co/400x300/27ae60/ffffff?text=Premium",
		"https://placehold.co/400x300/2980b9/ffffff?text=Electric",
		"https://placehold.co/400x300/8e44ad/ffffff?text=Hybrid",
		"https://placehold.co/400x300/d35400/ffffff?text=Family",
	}

	detailImages = Palette{
		"https://placehold.co/800x600/3498db/ffffff?text=Car+Details",
		"https://placehold.co/800x600/e74c3c/ffffff?text=Car+Details",
		"https://placehold.co/800x600/2ecc71/ffffff?text=Car+Details",
		"https://placehold.co/800x600/f39c12/ffffff?text=Car+Details",
		"https://placehold.co/800x600/9b59b6/ffffff?text=Car+Details",
	}
)

// priceScale converts a catalog price into a daily rate.
var priceScale = decimal.NewFromInt(10)

// View describes one rendering of the catalog: how many records it keeps,
// which palette it draws images from and whether rates are rounded. Rounded
// views scale the default rate like a parsed price.
type View struct {
	Name     string
	MaxCount int
	Images   Palette
	Round    bool
}

var (
	// Teaser is the home page strip.
	Teaser = View{Name: "teaser", MaxCount: 6, Images: teaserImages, Round: true}
	// Grid is the full vehicles page. Rates stay unrounded so sorting sees
	// the exact value; templates round on output.
	Grid = View{Name: "grid", MaxCount: 30, Images: gridImages, Round: false}
)

// Normalize maps at most v.MaxCount records to display vehicles. It never
// fails: missing fields take their documented defaults.
func (v View) Normalize(raw []domain.RawCatalogRecord) []domain.DisplayVehicle {
	n := len(raw)
	if v.MaxCount >= 0 && n > v.MaxCount {
		n = v.MaxCount
	}

	out := make([]domain.DisplayVehicle, 0, n)
	for i, rec := range raw[:n] {
		id := rec.ID
		if id == 0 {
			// Positional ids are only unique within this fetch.
			id = i + 1
		}
		out = append(out, domain.DisplayVehicle{
			ID:    id,
			Name:  vehicleName(rec),
			Type:  domain.VehicleType,
			Color: colorOrDefault(rec.Color),
			Price: dailyRate(rec.Price, v.Round),
			Image: v.Images.At(i),
		})
	}
	return out
}

// Detail maps the single record of the detail page. fallbackID is the id the
// page was asked for and is used when the record carries none.
func Detail(rec domain.RawCatalogRecord, fallbackID int) domain.VehicleDetail {
	id := rec.ID
	if id == 0 {
		id = fallbackID
	}

	features := make([]string, len(domain.DetailFeatures))
	copy(features, domain.DetailFeatures)

	return domain.VehicleDetail{
		DisplayVehicle: domain.DisplayVehicle{
			ID:    id,
			Name:  vehicleName(rec),
			Type:  domain.VehicleType,
			Color: colorOrDefault(rec.Color),
			Price: dailyRate(rec.Price, true),
			Image: detailImages.At(rec.ID),
		},
		Description: description(rec),
		Features:    features,
		Available:   rec.Availability,
	}
}

// ParsePrice strips everything but digits and '.' from s and parses the rest.
// "$1,234.50" parses to 1234.50. It reports false when nothing parseable remains.
func ParsePrice(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func dailyRate(raw string, round bool) float64 {
	parsed, ok := ParsePrice(raw)
	if !ok {
		if !round {
			return domain.DefaultDailyRate
		}
		parsed = decimal.NewFromInt(domain.DefaultDailyRate)
	}
	rate := parsed.Div(priceScale)
	if round {
		rate = rate.Round(0)
	}
	return rate.InexactFloat64()
}

func vehicleName(rec domain.RawCatalogRecord) string {
	return strings.TrimSpace(rec.Make + " " + rec.Model)
}

func colorOrDefault(c string) string {
	if strings.TrimSpace(c) == "" {
		return domain.DefaultColor
	}
	return c
}

func description(rec domain.RawCatalogRecord) string {
	parts := make([]string, 0, 3)
	if rec.ModelYear != 0 {
		parts = append(parts, strconv.Itoa(rec.ModelYear))
	}
	if name := vehicleName(rec); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
