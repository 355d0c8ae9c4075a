package filter

import (
	"errors"
	"reflect"
	"testing"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

func TestParseZIP(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		all     bool
		wantErr bool
	}{
		{input: "10001, 10005, 10007-10011", want: []int{10001, 10005, 10007, 10008, 10009, 10010, 10011}},
		{input: "10001", want: []int{10001}},
		{input: "10003 - 10005", want: []int{10003, 10004, 10005}},
		{input: "10005-10003", want: []int{10003, 10004, 10005}},
		{input: "10001,10001-10002", want: []int{10001, 10002}},
		{input: "11201;11205", want: []int{11201, 11205}},
		{input: "0", all: true},
		{input: "", all: true},
		{input: "   ", all: true},
		{input: "all", all: true},
		{input: "ALL", all: true},
		{input: "abc", wantErr: true},
		{input: "123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := ParseZIP(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidZIP) {
					t.Fatalf("ParseZIP(%q) error = %v, want ErrInvalidZIP", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseZIP(%q) unexpected error: %v", tt.input, err)
			}
			if spec.All() != tt.all {
				t.Errorf("All() = %v, want %v", spec.All(), tt.all)
			}
			if !reflect.DeepEqual(spec.values(), tt.want) {
				t.Errorf("values() = %v, want %v", spec.values(), tt.want)
			}
		})
	}
}

func TestZipSpecString(t *testing.T) {
	spec, err := ParseZIP("10001, 10007-10011")
	if err != nil {
		t.Fatal(err)
	}
	if got := spec.String(); got != "10001, 10007-10011" {
		t.Errorf("String() = %q", got)
	}
	if got := (ZipSpec{}).String(); got != "all" {
		t.Errorf("zero String() = %q, want all", got)
	}

	// The rendered form parses back to the same constraint.
	for _, in := range []ZipSpec{spec, {}} {
		back, err := ParseZIP(in.String())
		if err != nil {
			t.Errorf("ParseZIP(%q) error: %v", in.String(), err)
			continue
		}
		if !reflect.DeepEqual(back, in) {
			t.Errorf("ParseZIP(%q) = %v, want %v", in.String(), back, in)
		}
	}
}

func record(addr, boro, nb, btype string, zip *int) types.Record {
	return types.Record{
		Address:      addr,
		Borough:      borough.Parse(boro),
		Neighborhood: nb,
		BuildingType: btype,
		ZipCode:      zip,
		Latitude:     types.Float(40.7),
		Longitude:    types.Float(-73.9),
	}
}

func dataset() []types.Record {
	return []types.Record{
		record("10 Main St", "1", "Chelsea", "Residential", types.Int(10001)),
		record("22 Broadway", "Manhattan", "Financial", "Condos", types.Int(10004)),
		record("5 Steinway St", "4", "Astoria", "Residential", types.Int(11103)),
		record("77 Ditmars Blvd", "Queens", "Astoria", "Co-Ops", nil),
		record("1 Bay Ridge Pkwy", "3", "Bay Ridge", "Vacant", types.Int(11209)),
		record("9 Unknown Rd", "9", "Elsewhere", "Special", types.Int(10001)),
	}
}

func addresses(recs []types.Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Address)
	}
	return out
}

func mustZIP(t *testing.T, s string) ZipSpec {
	t.Helper()
	z, err := ParseZIP(s)
	if err != nil {
		t.Fatal(err)
	}
	return z
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{
			name: "empty spec keeps all",
			spec: Spec{},
			want: []string{"10 Main St", "22 Broadway", "5 Steinway St", "77 Ditmars Blvd", "1 Bay Ridge Pkwy", "9 Unknown Rd"},
		},
		{
			name: "borough by name",
			spec: Spec{Boroughs: []string{"Manhattan"}},
			want: []string{"10 Main St", "22 Broadway"},
		},
		{
			name: "borough by code",
			spec: Spec{Boroughs: []string{"1"}},
			want: []string{"10 Main St", "22 Broadway"},
		},
		{
			name: "unknown borough value",
			spec: Spec{Boroughs: []string{"9"}},
			want: []string{"9 Unknown Rd"},
		},
		{
			name: "neighborhood substring any case",
			spec: Spec{Neighborhoods: []string{"astor", "RIDGE"}},
			want: []string{"5 Steinway St", "77 Ditmars Blvd", "1 Bay Ridge Pkwy"},
		},
		{
			name: "address substring",
			spec: Spec{Address: "main"},
			want: []string{"10 Main St"},
		},
		{
			name: "zip range drops records without zip",
			spec: Spec{Zip: mustZIP(t, "11100-11300")},
			want: []string{"5 Steinway St", "1 Bay Ridge Pkwy"},
		},
		{
			name: "building types",
			spec: Spec{BuildingTypes: []string{"residential", "co-ops"}},
			want: []string{"10 Main St", "5 Steinway St", "77 Ditmars Blvd"},
		},
		{
			name: "conjunction",
			spec: Spec{Boroughs: []string{"Queens"}, Neighborhoods: []string{"Astoria"}, Zip: mustZIP(t, "11103")},
			want: []string{"5 Steinway St"},
		},
		{
			name: "no match",
			spec: Spec{Boroughs: []string{"Bronx"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := addresses(Apply(dataset(), tt.spec))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoroughCodeNameEquivalence(t *testing.T) {
	byName := Apply(dataset(), Spec{Boroughs: []string{"Manhattan"}})
	byCode := Apply(dataset(), Spec{Boroughs: []string{"1"}})
	if !reflect.DeepEqual(byName, byCode) {
		t.Errorf("by name %v != by code %v", addresses(byName), addresses(byCode))
	}
}

func TestSpecEmpty(t *testing.T) {
	if !(Spec{Boroughs: []string{" "}}).Empty() {
		t.Errorf("blank borough should count as empty")
	}
	if (Spec{Address: "x"}).Empty() {
		t.Errorf("address filter is not empty")
	}
}

