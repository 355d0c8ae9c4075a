package zoning

// WGS-84 → New York Long Island (EPSG:2263) Lambert Conformal Conic, US feet.
// NYC City Planning publishes the zoning district layer in this CRS.

import "math"

const (
	spFalseEasting  = 984250.0 // 300000 m
	spFalseNorthing = 0.0
	phi0Deg         = 40.16666666666666 // latitude of origin
	phi1Deg         = 40.66666666666666 // standard parallel 1
	phi2Deg         = 41.03333333333333 // standard parallel 2
	lon0Deg         = -74.0             // central meridian

	ftPerMeter = 3.2808333333333334 // US survey foot
	semiMajorM = 6378137.0          // NAD83 semi-major axis (metres)
	e2         = 0.00669438002290   // NAD83 eccentricity squared
)

var (
	lccN    float64
	lccF    float64
	lccRho0 float64
)

func init() {
	phi1 := phi1Deg * math.Pi / 180
	phi2 := phi2Deg * math.Pi / 180
	phi0 := phi0Deg * math.Pi / 180

	m1 := lccM(phi1)
	m2 := lccM(phi2)
	t1 := lccT(phi1)
	t2 := lccT(phi2)
	t0 := lccT(phi0)

	lccN = math.Log(m1/m2) / math.Log(t1/t2)

	aFt := semiMajorM * ftPerMeter
	lccF = aFt * m1 / (lccN * math.Pow(t1, lccN))
	lccRho0 = lccF * math.Pow(t0, lccN)
}

func lccM(phi float64) float64 {
	return math.Cos(phi) / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
}

func lccT(phi float64) float64 {
	e := math.Sqrt(e2)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*math.Sin(phi))/(1+e*math.Sin(phi)), e/2)
}

// wgs84ToNYLI converts decimal degrees to state-plane feet, returned as
// (northing, easting) to match the [y, x] ordering of polygon rings.
func wgs84ToNYLI(latDeg, lonDeg float64) (northingFt, eastingFt float64) {
	phi := latDeg * math.Pi / 180
	lambda := lonDeg * math.Pi / 180
	lambda0 := lon0Deg * math.Pi / 180

	rho := lccF * math.Pow(lccT(phi), lccN)
	theta := lccN * (lambda - lambda0)

	eastingFt = rho*math.Sin(theta) + spFalseEasting
	northingFt = lccRho0 - rho*math.Cos(theta) + spFalseNorthing
	return
}
