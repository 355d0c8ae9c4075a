package types

import (
	"strconv"

	"nycleads/internal/borough"
)

// Recognized column names after key normalization.
const (
	ColAddress      = "ADDRESS"
	ColBorough      = "BOROUGH"
	ColNeighborhood = "NEIGHBORHOOD"
	ColZipCode      = "ZIP CODE"
	ColLatitude     = "LATITUDE"
	ColLongitude    = "LONGITUDE"
	ColSalePrice    = "SALE PRICE"
	ColYearBuilt    = "YEAR BUILT"
	ColBuildingType = "BUILDING TYPE"
)

// RawRecord is one entry of a source file with its keys as they appear on disk.
type RawRecord map[string]any

// Record is a sale record after key/value standardization, borough resolution
// and numeric coercion. Optional numerics are nil when absent or unparseable.
type Record struct {
	Address      string          `json:"address"`
	Borough      borough.Borough `json:"borough"`
	Neighborhood string          `json:"neighborhood,omitempty"`
	ZipCode      *int            `json:"zipCode,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	SalePrice    *float64        `json:"salePrice,omitempty"`
	YearBuilt    *int            `json:"yearBuilt,omitempty"`
	BuildingType string          `json:"buildingType"`

	// Position is the row index inside the source file.
	Position int    `json:"position"`
	Zoning   string `json:"zoning,omitempty"`

	// Extra holds the remaining scalar columns, stringified.
	Extra map[string]string `json:"extra,omitempty"`
}

// Key is the annotation identity of the record. It depends only on source
// data so it is stable across filter runs.
func (r Record) Key() string {
	return r.Borough.String() + "-" + r.Address + "-" + strconv.Itoa(r.Position)
}

// HasCoordinates reports whether at least one coordinate is present.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil || r.Longitude != nil
}

// LatLon returns both coordinates when both are present.
func (r Record) LatLon() (float64, float64, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
