package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"nycleads/internal/lockfile"
	"nycleads/internal/types"
)

var exportHeader = []string{
	"Key", "Building Type", "Borough", "Neighborhood", "Address", "ZIP Code",
	"Latitude", "Longitude", "Sale Price", "Year Built", "Zoning",
}

func writeRecordsCSV(w io.Writer, records []types.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.Key(),
			r.BuildingType,
			r.Borough.String(),
			r.Neighborhood,
			r.Address,
			formatInt(r.ZipCode),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			formatFloat(r.SalePrice),
			formatInt(r.YearBuilt),
			r.Zoning,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportCSV(path string, records []types.Record) error {
	var buf bytes.Buffer
	if err := writeRecordsCSV(&buf, records); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := lockfile.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exportJSON(path string, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	data, err := json.Marshal(records, json.Deterministic(true), jsontext.WithIndent("    "))
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := lockfile.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
