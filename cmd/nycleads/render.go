package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"nycleads/internal/annotations"
	"nycleads/internal/pipeline"
	"nycleads/internal/types"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

// mapsURL links a coordinate pair to Google Maps.
func mapsURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64))
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	s := strconv.FormatInt(int64(*v), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return "$" + s
}

// recordLine is the one-line form used by search and browse.
func recordLine(r types.Record) string {
	return fmt.Sprintf("%-40s | %-13s | %-25s | %5s | %-12s | %12s",
		truncate(r.Address, 40), r.Borough, truncate(r.Neighborhood, 25), formatInt(r.ZipCode), truncate(r.BuildingType, 12), formatPrice(r.SalePrice))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

// renderRecord prints one record and its annotation in a readable layout.
func renderRecord(r types.Record, a annotations.Annotation) {
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Address           : %s\n", r.Address)
	fmt.Printf("Borough           : %s\n", r.Borough)
	fmt.Printf("Neighborhood      : %s\n", r.Neighborhood)
	fmt.Printf("ZIP Code          : %s\n", formatInt(r.ZipCode))
	fmt.Printf("Building Type     : %s\n", r.BuildingType)
	fmt.Println()

	fmt.Printf("Sale Price        : %s\n", formatPrice(r.SalePrice))
	fmt.Printf("Year Built        : %s\n", formatInt(r.YearBuilt))
	if r.Zoning != "" {
		fmt.Printf("Zoning            : %s\n", r.Zoning)
	}
	if len(r.Extra) > 0 {
		keys := make([]string, 0, len(r.Extra))
		for k := range r.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-18s: %s\n", truncate(k, 18), r.Extra[k])
		}
	}
	fmt.Println()

	if lat, lon, ok := r.LatLon(); ok {
		fmt.Printf("Coordinates       : %s, %s\n", formatFloat(r.Latitude), formatFloat(r.Longitude))
		fmt.Printf("Map URL           : %s\n", mapsURL(lat, lon))
	} else {
		fmt.Println("Latitude/Longitude incomplete; no map link")
	}

	contacted := colorRed + "no" + colorReset
	if a.Contacted {
		contacted = colorGreen + "yes" + colorReset
	}
	fmt.Printf("Contacted         : %s\n", contacted)
	if a.Note != "" {
		fmt.Printf("Note              : %s\n", a.Note)
	}
	fmt.Printf("Key               : %s\n", r.Key())
	fmt.Println(strings.Repeat("-", 80))
}

func printSummary(s pipeline.Summary) {
	fmt.Printf("\n%d records", s.Total)
	if s.Total == 0 {
		fmt.Println()
		return
	}
	labels := make([]string, 0, len(s.ByBuildingType))
	for l := range s.ByBuildingType {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	var parts []string
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s: %d", l, s.ByBuildingType[l]))
	}
	fmt.Printf(" (%s), centre %.4f, %.4f\n", strings.Join(parts, ", "), s.CenterLat, s.CenterLon)
}
