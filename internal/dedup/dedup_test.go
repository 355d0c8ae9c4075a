package dedup

import (
	"testing"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

func rec(addr, boro string, lat, lon *float64) types.Record {
	return types.Record{Address: addr, Borough: borough.Parse(boro), Latitude: lat, Longitude: lon}
}

func TestRecordsKeepsFirstOccurrence(t *testing.T) {
	in := []types.Record{
		rec("10 Main St", "1", types.Float(40.1), types.Float(-73.9)),
		rec("10 Main St", "4", types.Float(40.2), types.Float(-73.8)),
		rec("12 Main St", "3", types.Float(40.3), nil),
		rec("10 main st", "2", types.Float(40.4), types.Float(-73.7)),
	}

	out := Records(in)
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	if out[0].Borough.String() != "Manhattan" {
		t.Errorf("first survivor borough = %q, want Manhattan", out[0].Borough.String())
	}
	if out[1].Address != "12 Main St" || out[2].Address != "10 main st" {
		t.Errorf("unexpected order: %q, %q", out[1].Address, out[2].Address)
	}
}

func TestRecordsDropsMissingCoordinates(t *testing.T) {
	in := []types.Record{
		rec("1 Elm St", "1", nil, nil),
		rec("1 Elm St", "1", nil, types.Float(-73.9)),
		rec("2 Elm St", "1", nil, nil),
	}

	out := Records(in)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Longitude == nil {
		t.Errorf("survivor should be the row with a longitude")
	}
}

func TestRecordsEmpty(t *testing.T) {
	if out := Records(nil); len(out) != 0 {
		t.Errorf("Records(nil) returned %d records", len(out))
	}
}
