package borough

import "strings"

// codeNames is the fixed NYC borough table used by the Department of Finance
// sales files.
var codeNames = map[string]string{
	"1": "Manhattan",
	"2": "Bronx",
	"3": "Brooklyn",
	"4": "Queens",
	"5": "Staten Island",
}

var codeOrder = []string{"1", "2", "3", "4", "5"}

// Borough carries both identities of a borough so that a value read as "1"
// and a value read as "Manhattan" compare equal.
type Borough struct {
	Code string // "1".."5", empty when unknown
	Name string // canonical name, empty when unknown
	Raw  string // trimmed input value
}

// Parse resolves a raw borough value. Known codes get their name, known names
// (any case) get their code, everything else keeps only Raw.
func Parse(raw string) Borough {
	raw = strings.TrimSpace(raw)
	b := Borough{Raw: raw}
	if name, ok := codeNames[raw]; ok {
		b.Code = raw
		b.Name = name
		return b
	}
	for _, code := range codeOrder {
		if strings.EqualFold(codeNames[code], raw) {
			b.Code = code
			b.Name = codeNames[code]
			return b
		}
	}
	return b
}

// Known reports whether the value resolved against the code table.
func (b Borough) Known() bool {
	return b.Code != ""
}

// String returns the resolved name, or the raw value when it did not resolve.
func (b Borough) String() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Raw
}

// Matches compares by code when both sides resolved, else by text ignoring case.
func (b Borough) Matches(other Borough) bool {
	if b.Known() && other.Known() {
		return b.Code == other.Code
	}
	return strings.EqualFold(b.String(), other.String())
}

// MatchesAny reports whether b matches at least one of the given boroughs.
func (b Borough) MatchesAny(set []Borough) bool {
	for _, o := range set {
		if b.Matches(o) {
			return true
		}
	}
	return false
}

// Codes returns the fixed codes in order.
func Codes() []string {
	out := make([]string, len(codeOrder))
	copy(out, codeOrder)
	return out
}

// Names returns the fixed names in code order.
func Names() []string {
	out := make([]string, 0, len(codeOrder))
	for _, c := range codeOrder {
		out = append(out, codeNames[c])
	}
	return out
}

// NameFor returns the name for a code.
func NameFor(code string) (string, bool) {
	name, ok := codeNames[strings.TrimSpace(code)]
	return name, ok
}

// MarshalText encodes the display value.
func (b Borough) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText re-resolves the value against the code table.
func (b *Borough) UnmarshalText(text []byte) error {
	*b = Parse(string(text))
	return nil
}
