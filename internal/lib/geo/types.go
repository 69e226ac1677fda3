package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Point represents a geographic coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Valid reports whether the point lies within the WGS84 coordinate domain.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

func (p Point) orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// projection maps geographic coordinates onto a local metric plane using an
// equirectangular approximation centered on a reference point. Accurate to
// well under a meter at corridor scale (a few kilometers of extent).
type projection struct {
	lat0, lon0 float64
	kx, ky     float64 // meters per degree of longitude/latitude at the reference
}

const metersPerDegree = 111320.0

func newProjection(ref Point) projection {
	return projection{
		lat0: ref.Latitude,
		lon0: ref.Longitude,
		kx:   metersPerDegree * math.Cos(ref.Latitude*math.Pi/180),
		ky:   metersPerDegree,
	}
}

func (pr projection) toPlane(p Point) orb.Point {
	return orb.Point{
		(p.Longitude - pr.lon0) * pr.kx,
		(p.Latitude - pr.lat0) * pr.ky,
	}
}
