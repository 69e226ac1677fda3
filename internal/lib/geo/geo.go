// Package geo is a thin façade over external geometry libraries. It exposes
// the handful of primitives the analysis pipeline needs: geodesic point
// distance, directional bearing, nearest-point-on-line projection with
// cumulative distance, and buffered-corridor predicates.
package geo

import (
	"math"

	orbgeo "github.com/paulmach/orb/geo"
)

// Distance calculates the great-circle distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.DistanceHaversine(p1.orb(), p2.orb())
}

// Bearing calculates the initial bearing from p1 to p2 in degrees,
// normalized to [0, 360) with 0 pointing north.
func Bearing(p1, p2 Point) float64 {
	b := orbgeo.Bearing(p1.orb(), p2.orb())
	if b < 0 {
		b += 360
	}
	return b
}

// BearingDifference returns the smallest angular difference between two
// bearings in degrees, folding both compass wrap-around (360 -> 0) and
// direction reversal: a segment and its exact reverse are considered to
// point the same way, since a feature may be traced in either direction.
// The result is always in [0, 90].
func BearingDifference(b1, b2 float64) float64 {
	d := math.Mod(math.Abs(b1-b2), 360)
	if d > 180 {
		d = 360 - d
	}
	return math.Min(d, 180-d)
}

// SegmentBearings returns the bearing of every directed segment of the
// polyline. A polyline with fewer than 2 points has no segments.
func SegmentBearings(points []Point) []float64 {
	if len(points) < 2 {
		return nil
	}
	bearings := make([]float64, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		bearings = append(bearings, Bearing(points[i], points[i+1]))
	}
	return bearings
}
