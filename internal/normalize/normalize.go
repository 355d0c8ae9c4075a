package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

// RequiredColumns must appear somewhere in a file for it to contribute records.
var RequiredColumns = []string{
	types.ColAddress,
	types.ColBorough,
	types.ColZipCode,
	types.ColLatitude,
	types.ColLongitude,
}

// SchemaError reports a file that lacks one or more required columns.
type SchemaError struct {
	Path     string
	Category string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s (%s): missing required columns %s", e.Path, e.Category, strings.Join(e.Missing, ", "))
}

// Key standardizes a column name: trim whitespace, uppercase.
func Key(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}

// Normalize standardizes the rows of one source file and tags them with the
// category label. Rows keep their input order and their index as Position.
// A file missing a required column yields a *SchemaError and no records.
func Normalize(path, category string, raws []types.RawRecord) ([]types.Record, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	rows := make([]map[string]any, len(raws))
	columns := make(map[string]bool)
	for i, raw := range raws {
		rows[i] = normalizeKeys(raw)
		for k := range rows[i] {
			columns[k] = true
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Category: category, Missing: missing}
	}

	title := cases.Title(language.English)
	records := make([]types.Record, 0, len(rows))
	for i, row := range rows {
		rec := types.Record{
			Address:      strings.TrimSpace(Stringify(row[types.ColAddress])),
			Borough:      borough.Parse(Stringify(row[types.ColBorough])),
			BuildingType: category,
			Position:     i,
		}
		if v, ok := row[types.ColNeighborhood]; ok {
			rec.Neighborhood = title.String(strings.TrimSpace(Stringify(v)))
		}
		if f, ok := Number(row[types.ColLatitude]); ok {
			rec.Latitude = types.Float(f)
		}
		if f, ok := Number(row[types.ColLongitude]); ok {
			rec.Longitude = types.Float(f)
		}
		if f, ok := Number(row[types.ColSalePrice]); ok {
			rec.SalePrice = types.Float(f)
		}
		if n, ok := Integer(row[types.ColZipCode]); ok {
			rec.ZipCode = types.Int(n)
		}
		if n, ok := Integer(row[types.ColYearBuilt]); ok {
			rec.YearBuilt = types.Int(n)
		}
		rec.Extra = extraColumns(row)
		records = append(records, rec)
	}
	return records, nil
}

// normalizeKeys rewrites the keys of one row. When two raw keys collapse to
// the same column the first non-null value in sorted raw-key order wins.
func normalizeKeys(raw types.RawRecord) map[string]any {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	row := make(map[string]any, len(raw))
	for _, k := range keys {
		nk := Key(k)
		if prev, ok := row[nk]; ok && prev != nil {
			continue
		}
		row[nk] = raw[k]
	}
	return row
}

var known = map[string]bool{
	types.ColAddress:      true,
	types.ColBorough:      true,
	types.ColNeighborhood: true,
	types.ColZipCode:      true,
	types.ColLatitude:     true,
	types.ColLongitude:    true,
	types.ColSalePrice:    true,
	types.ColYearBuilt:    true,
	types.ColBuildingType: true,
}

func extraColumns(row map[string]any) map[string]string {
	var extra map[string]string
	for k, v := range row {
		if known[k] || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = strings.TrimSpace(Stringify(v))
	}
	return extra
}

// Stringify renders a decoded JSON scalar as text. Integral numbers print
// without a fractional part so that a borough of 1 reads as "1".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Number coerces a decoded value to a float. Thousands separators and a
// leading dollar sign are accepted. Anything else, including NaN and Inf,
// is reported as absent.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		var err error
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Integer coerces a decoded value to an int; non-integral numbers are absent.
func Integer(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
