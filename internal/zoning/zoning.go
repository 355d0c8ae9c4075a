package zoning

import (
	"fmt"
	"math"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"nycleads/internal/types"
)

// districtFields are tried in order when reading a polygon's district code.
var districtFields = []string{"ZONEDIST", "ZONING", "BASE_ZONIN"}

// feature is a polygon (possibly multi-part) with its DBF attributes.
type feature struct {
	Parts [][][2]float64 // each part is a closed ring of [y, x] points
	Attrs map[string]string
	MinY  float64
	MinX  float64
	MaxY  float64
	MaxX  float64
}

// Layer is a set of zoning polygons loaded from one or more shapefiles.
type Layer struct {
	features []feature
	// Projected means the polygons are in EPSG:2263 feet rather than degrees.
	Projected bool
}

// Load reads every shapefile into one layer.
func Load(projected bool, paths ...string) (*Layer, error) {
	l := &Layer{Projected: projected}
	for _, p := range paths {
		feats, err := loadShapefile(p)
		if err != nil {
			return nil, fmt.Errorf("load zoning shapefile %s: %w", p, err)
		}
		l.features = append(l.features, feats...)
	}
	return l, nil
}

// Len returns the number of polygons.
func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.features)
}

func loadShapefile(path string) ([]feature, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fields := r.Fields()

	var features []feature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		numParts := len(poly.Parts)
		parts := make([][][2]float64, numParts)

		minY, minX := math.MaxFloat64, math.MaxFloat64
		maxY, maxX := -math.MaxFloat64, -math.MaxFloat64

		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, int(end-start))
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, [2]float64{pt.Y, pt.X})
				minY = math.Min(minY, pt.Y)
				maxY = math.Max(maxY, pt.Y)
				minX = math.Min(minX, pt.X)
				maxX = math.Max(maxX, pt.X)
			}
			parts[partIdx] = ring
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[f.String()] = strings.TrimSpace(r.ReadAttribute(idx, i))
		}

		features = append(features, feature{
			Parts: parts,
			Attrs: attrs,
			MinY:  minY,
			MinX:  minX,
			MaxY:  maxY,
			MaxX:  maxX,
		})
	}
	return features, nil
}

// Attributes returns the attributes of the first polygon containing the
// point.
func (l *Layer) Attributes(lat, lon float64) (map[string]string, bool) {
	if l == nil {
		return nil, false
	}
	y, x := lat, lon
	if l.Projected {
		y, x = wgs84ToNYLI(lat, lon)
	}
	for _, z := range l.features {
		if y < z.MinY || y > z.MaxY || x < z.MinX || x > z.MaxX {
			continue // quick bbox reject
		}
		for _, ring := range z.Parts {
			if pointInPolygon(y, x, ring) {
				return z.Attrs, true
			}
		}
	}
	return nil, false
}

// District returns the zoning district code at the point, or "".
func (l *Layer) District(lat, lon float64) string {
	attrs, ok := l.Attributes(lat, lon)
	if !ok {
		return ""
	}
	for _, f := range districtFields {
		if z := attrs[f]; z != "" {
			return z
		}
	}
	return ""
}

// Annotate sets Zoning on every record with both coordinates that falls in a
// polygon and returns how many were tagged.
func (l *Layer) Annotate(records []types.Record) int {
	if l.Len() == 0 {
		return 0
	}
	n := 0
	for i := range records {
		lat, lon, ok := records[i].LatLon()
		if !ok {
			continue
		}
		if z := l.District(lat, lon); z != "" {
			records[i].Zoning = z
			n++
		}
	}
	return n
}

// pointInPolygon is the ray-casting test. Shapefile rings are closed.
func pointInPolygon(y, x float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i][0], ring[i][1]
		yj, xj := ring[j][0], ring[j][1]
		intersect := ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi)
		if intersect {
			inside = !inside
		}
		j = i
	}
	return inside
}
