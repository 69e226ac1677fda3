// Package route models a traveled route as an ordered point sequence with a
// cumulative distance table and a bounding region, plus parsers for the
// supported route file formats.
package route

import (
	"errors"
	"fmt"
	"math"

	"github.com/dpup/brunnels/internal/lib/geo"
)

// ErrInvalidRoute indicates a route that cannot be analyzed: fewer than 2
// points, or zero total length.
var ErrInvalidRoute = errors.New("invalid route")

// Point is a route vertex with an optional elevation in meters.
type Point struct {
	geo.Point
	Elevation *float64
}

// Region is a latitude/longitude bounding box.
type Region struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Expand grows the region by the given metric margin on every side.
func (r Region) Expand(meters float64) Region {
	dLat := meters / 111320.0
	midLat := (r.MinLat + r.MaxLat) / 2
	dLon := meters / (111320.0 * math.Cos(midLat*math.Pi/180))
	return Region{
		MinLat: r.MinLat - dLat,
		MinLon: r.MinLon - dLon,
		MaxLat: r.MaxLat + dLat,
		MaxLon: r.MaxLon + dLon,
	}
}

// Route is an immutable analyzed route. Create one per analysis run; it is
// never mutated after construction.
type Route struct {
	points []Point
	line   *geo.Line
	region Region
}

// New builds a Route from an ordered point sequence. It fails with
// ErrInvalidRoute when fewer than 2 points are given or all points coincide.
func New(points []Point) (*Route, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidRoute, len(points))
	}

	coords := make([]geo.Point, len(points))
	for i, p := range points {
		coords[i] = p.Point
	}
	line, err := geo.NewLine(coords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}

	region := Region{MinLat: 90, MinLon: 180, MaxLat: -90, MaxLon: -180}
	for _, p := range points {
		region.MinLat = math.Min(region.MinLat, p.Latitude)
		region.MaxLat = math.Max(region.MaxLat, p.Latitude)
		region.MinLon = math.Min(region.MinLon, p.Longitude)
		region.MaxLon = math.Max(region.MaxLon, p.Longitude)
	}

	return &Route{points: points, line: line, region: region}, nil
}

// Points returns the route's vertices in travel order.
func (r *Route) Points() []Point { return r.points }

// Length returns the total geodesic route length in meters.
func (r *Route) Length() float64 { return r.line.Length() }

// Region returns the route's bounding region.
func (r *Route) Region() Region { return r.region }

// CumulativeDistances returns the distance-along-route of each vertex.
func (r *Route) CumulativeDistances() []float64 { return r.line.CumulativeDistances() }

// Project returns the cumulative route distance of the nearest point on the
// route to p.
func (r *Route) Project(p geo.Point) float64 { return r.line.Project(p) }

// DistanceFrom returns the minimum distance from p to the route in meters.
func (r *Route) DistanceFrom(p geo.Point) float64 { return r.line.DistanceFrom(p) }

// Corridor buffers the route by width meters.
func (r *Route) Corridor(width float64) (*geo.Corridor, error) {
	return geo.NewCorridor(r.line, width)
}

// SubPath returns the route vertices whose cumulative distance lies within
// [start, end]. The result may have fewer than 2 points when the window falls
// between vertices; callers treat such sub-paths as indeterminate.
func (r *Route) SubPath(start, end float64) []geo.Point {
	return r.line.VerticesBetween(start, end)
}
