package neighborhoods

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

// Index maps a borough identity to the distinct neighborhoods seen for it.
// Boroughs are keyed by their display value (the name when the code resolved).
type Index struct {
	sets map[string]map[string]struct{}
}

// Pair is one row of the flattened export table.
type Pair struct {
	Borough      string
	Neighborhood string
}

func New() *Index {
	return &Index{sets: make(map[string]map[string]struct{})}
}

// Build aggregates every record that carries both a borough and a
// neighborhood. The result does not depend on input order.
func Build(records []types.Record) *Index {
	idx := New()
	for _, r := range records {
		idx.Add(r.Borough, r.Neighborhood)
	}
	return idx
}

// Add records one borough/neighborhood observation. Blank values are ignored.
func (idx *Index) Add(b borough.Borough, neighborhood string) {
	key := b.String()
	if key == "" || neighborhood == "" {
		return
	}
	set, ok := idx.sets[key]
	if !ok {
		set = make(map[string]struct{})
		idx.sets[key] = set
	}
	set[neighborhood] = struct{}{}
}

// Boroughs returns the borough keys in lexicographic order.
func (idx *Index) Boroughs() []string {
	keys := make([]string, 0, len(idx.sets))
	for k := range idx.sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the sorted neighborhoods for a borough given either its code
// or its name. Entries stored under either identity are merged.
func (idx *Index) Lookup(b string) []string {
	want := borough.Parse(b)
	merged := make(map[string]struct{})
	for key, set := range idx.sets {
		if !borough.Parse(key).Matches(want) {
			continue
		}
		for n := range set {
			merged[n] = struct{}{}
		}
	}
	return sortedKeys(merged)
}

// Map returns borough -> sorted neighborhoods.
func (idx *Index) Map() map[string][]string {
	out := make(map[string][]string, len(idx.sets))
	for k, set := range idx.sets {
		out[k] = sortedKeys(set)
	}
	return out
}

// Pairs flattens the index into (borough, neighborhood) rows, sorted by
// borough and then neighborhood.
func (idx *Index) Pairs() []Pair {
	var pairs []Pair
	for _, b := range idx.Boroughs() {
		for _, n := range sortedKeys(idx.sets[b]) {
			pairs = append(pairs, Pair{Borough: b, Neighborhood: n})
		}
	}
	return pairs
}

// Len returns the number of boroughs.
func (idx *Index) Len() int {
	return len(idx.sets)
}

// MarshalIndentJSON renders the index as a pretty-printed object with sorted
// keys, so two builds over the same input are byte-identical.
func (idx *Index) MarshalIndentJSON() ([]byte, error) {
	data, err := json.Marshal(idx.Map(),
		json.Deterministic(true),
		jsontext.WithIndent("    "),
	)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteCSV writes the Borough,Neighborhood table with a header row.
func (idx *Index) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Borough", "Neighborhood"}); err != nil {
		return err
	}
	for _, p := range idx.Pairs() {
		if err := cw.Write([]string{p.Borough, p.Neighborhood}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the table written by WriteCSV.
func (idx *Index) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := idx.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes an index previously written by MarshalIndentJSON.
func Parse(data []byte) (*Index, error) {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode neighborhood index: %w", err)
	}
	idx := New()
	for b, ns := range m {
		for _, n := range ns {
			idx.Add(borough.Borough{Raw: strings.TrimSpace(b)}, n)
		}
	}
	return idx, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
