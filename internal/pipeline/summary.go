package pipeline

import "nycleads/internal/types"

// Default map centre (lower Manhattan) used when a result has no coordinates.
const (
	DefaultCenterLat = 40.7128
	DefaultCenterLon = -74.0060
)

// Summary describes a result for the map view.
type Summary struct {
	Total          int            `json:"total"`
	ByBuildingType map[string]int `json:"byBuildingType"`
	CenterLat      float64        `json:"centerLat"`
	CenterLon      float64        `json:"centerLon"`
}

// Summarize counts records per building type and averages each coordinate
// over the records that have it.
func Summarize(records []types.Record) Summary {
	s := Summary{
		Total:          len(records),
		ByBuildingType: make(map[string]int),
		CenterLat:      DefaultCenterLat,
		CenterLon:      DefaultCenterLon,
	}

	var latSum, lonSum float64
	var latN, lonN int
	for _, r := range records {
		s.ByBuildingType[r.BuildingType]++
		if r.Latitude != nil {
			latSum += *r.Latitude
			latN++
		}
		if r.Longitude != nil {
			lonSum += *r.Longitude
			lonN++
		}
	}
	if latN > 0 {
		s.CenterLat = latSum / float64(latN)
	}
	if lonN > 0 {
		s.CenterLon = lonSum / float64(lonN)
	}
	return s
}
