package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean radius of Earth used for Haversine distance.
const EarthRadiusMiles = 3959.0

// MetersPerMile converts statute miles to meters (PostGIS geography works in meters).
const MetersPerMile = 1609.344

// Point is a WGS-84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// NewPoint validates and creates a Point.
func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, fmt.Errorf("invalid coordinate (%v, %v)", lat, lon)
	}
	return p, nil
}

// Valid reports whether both components are finite and within WGS-84 bounds.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// String renders the point as "lat,lon".
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// DistanceMiles returns the great-circle distance between a and b in miles.
// NaN components propagate to the result.
func DistanceMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair outside [0,1] for antipodal points.
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// Box is a lat/lon bounding rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// BoundingBox returns a rectangle that encloses every point within radiusMiles
// of center. It over-covers near the poles and is meant as a coarse pre-filter
// ahead of an exact DistanceMiles check.
func BoundingBox(center Point, radiusMiles float64) Box {
	dLat := radiusMiles / EarthRadiusMiles * 180 / math.Pi

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-9 {
		dLon = math.Min(180, dLat/cosLat)
	}

	return Box{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
		MinLon: math.Max(-180, center.Lon-dLon),
		MaxLon: math.Min(180, center.Lon+dLon),
	}
}

// NearTieMiles is the width of the distance bucket within which results count
// as equally near and fall through to the secondary sort key.
const NearTieMiles = 0.1

// DistanceBucket returns floor(miles / NearTieMiles).
func DistanceBucket(miles float64) int64 {
	return int64(math.Floor(miles / NearTieMiles))
}
