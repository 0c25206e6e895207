package domain

// VehicleType is the only type the catalog carries.
const VehicleType = "Car"

// DefaultColor is used when a record has no color.
const DefaultColor = "Gray"

// DefaultDailyRate applies when a record has no usable price.
const DefaultDailyRate = 2000

// DetailFeatures is the fixed feature list of the detail view.
var DetailFeatures = []string{"Air Conditioning", "Power Steering", "Bluetooth", "GPS Navigation"}

// RawCatalogRecord is a vehicle as the catalog API returns it. Every field is
// optional; unknown fields are ignored.
type RawCatalogRecord struct {
	ID           int    `json:"id,omitempty"`
	Make         string `json:"car"`
	Model        string `json:"car_model"`
	ModelYear    int    `json:"car_model_year,omitempty"`
	Color        string `json:"car_color,omitempty"`
	VIN          string `json:"car_vin,omitempty"`
	Price        string `json:"price,omitempty"`
	Availability bool   `json:"availability"`
}

// CatalogList is the body of GET {base}/.
type CatalogList struct {
	Cars []RawCatalogRecord `json:"cars"`
}

// CatalogItem is the body of GET {base}/{id}.
type CatalogItem struct {
	Car *RawCatalogRecord `json:"Car"`
}

// DisplayVehicle is the display-ready shape of one catalog record. Values are
// built once by the normalizer and never modified afterwards.
type DisplayVehicle struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color string  `json:"color"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// VehicleDetail extends DisplayVehicle with the detail page fields.
type VehicleDetail struct {
	DisplayVehicle
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Available   bool     `json:"available"`
}
