package filter

import (
	"strings"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

// Spec is a conjunction of optional sub-filters. Empty fields impose no
// constraint.
type Spec struct {
	BuildingTypes []string // exact labels, any case
	Boroughs      []string // codes or names
	Neighborhoods []string // case-insensitive substrings, OR-ed
	Address       string   // case-insensitive substring
	Zip           ZipSpec
}

// Empty reports whether s keeps every record.
func (s Spec) Empty() bool {
	return len(nonBlank(s.BuildingTypes)) == 0 &&
		len(nonBlank(s.Boroughs)) == 0 &&
		len(nonBlank(s.Neighborhoods)) == 0 &&
		strings.TrimSpace(s.Address) == "" &&
		s.Zip.All()
}

// matcher is a Spec with its values pre-resolved for repeated use.
type matcher struct {
	types         []string
	boroughs      []borough.Borough
	neighborhoods []string
	address       string
	zip           ZipSpec
}

func compile(s Spec) matcher {
	m := matcher{
		types:   nonBlank(s.BuildingTypes),
		address: strings.ToLower(strings.TrimSpace(s.Address)),
		zip:     s.Zip,
	}
	for _, b := range nonBlank(s.Boroughs) {
		m.boroughs = append(m.boroughs, borough.Parse(b))
	}
	for _, n := range nonBlank(s.Neighborhoods) {
		m.neighborhoods = append(m.neighborhoods, strings.ToLower(n))
	}
	return m
}

func (m matcher) match(r types.Record) bool {
	if len(m.types) > 0 && !containsFold(m.types, r.BuildingType) {
		return false
	}
	if len(m.boroughs) > 0 && !r.Borough.MatchesAny(m.boroughs) {
		return false
	}
	if len(m.neighborhoods) > 0 {
		nb := strings.ToLower(r.Neighborhood)
		ok := false
		for _, n := range m.neighborhoods {
			if strings.Contains(nb, n) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if m.address != "" && !strings.Contains(strings.ToLower(r.Address), m.address) {
		return false
	}
	if !m.zip.All() {
		if r.ZipCode == nil || !m.zip.Contains(*r.ZipCode) {
			return false
		}
	}
	return true
}

// Apply returns the records that satisfy every sub-filter of spec, in input
// order. The input slice is not modified.
func Apply(records []types.Record, spec Spec) []types.Record {
	m := compile(spec)
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
