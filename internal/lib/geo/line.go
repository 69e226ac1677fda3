package geo

import (
	"errors"

	"github.com/paulmach/orb"
	orbplanar "github.com/paulmach/orb/planar"
)

// Line is a polyline prepared for repeated projection queries. It carries a
// cumulative geodesic distance table and a planar rendering of the geometry
// in a local metric frame centered on the first point.
type Line struct {
	points []Point
	proj   projection
	plane  orb.LineString
	cum    []float64
}

// NewLine builds a Line from at least 2 points. The total length must be
// non-zero; projection and bearing queries are undefined on a degenerate line.
func NewLine(points []Point) (*Line, error) {
	if len(points) < 2 {
		return nil, errors.New("line requires at least 2 points")
	}
	for _, p := range points {
		if !p.Valid() {
			return nil, errors.New("line contains invalid coordinates")
		}
	}

	proj := newProjection(points[0])
	plane := make(orb.LineString, len(points))
	cum := make([]float64, len(points))
	for i, p := range points {
		plane[i] = proj.toPlane(p)
		if i > 0 {
			cum[i] = cum[i-1] + Distance(points[i-1], points[i])
		}
	}
	if cum[len(cum)-1] == 0 {
		return nil, errors.New("line has zero length")
	}

	return &Line{points: points, proj: proj, plane: plane, cum: cum}, nil
}

// Points returns the line's vertices in order.
func (l *Line) Points() []Point { return l.points }

// Length returns the total geodesic length of the line in meters.
func (l *Line) Length() float64 { return l.cum[len(l.cum)-1] }

// CumulativeDistances returns the distance-along-line of each vertex in
// meters. The slice is the same length as Points, starts at 0 and is
// non-decreasing.
func (l *Line) CumulativeDistances() []float64 { return l.cum }

// DistanceFrom returns the minimum distance in meters from the point to the
// line.
func (l *Line) DistanceFrom(p Point) float64 {
	return orbplanar.DistanceFrom(l.plane, l.proj.toPlane(p))
}

// Project finds the nearest point on the line and returns its cumulative
// distance along the line in meters.
func (l *Line) Project(p Point) float64 {
	pt := l.proj.toPlane(p)
	_, seg := orbplanar.DistanceFromWithIndex(l.plane, pt)
	if seg < 0 {
		seg = 0
	}
	if seg > len(l.plane)-2 {
		seg = len(l.plane) - 2
	}

	a, b := l.plane[seg], l.plane[seg+1]
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = ((pt[0]-a[0])*dx + (pt[1]-a[1])*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return l.cum[seg] + t*(l.cum[seg+1]-l.cum[seg])
}

// VerticesBetween returns the vertices whose cumulative distance lies within
// [start, end], in line order.
func (l *Line) VerticesBetween(start, end float64) []Point {
	var out []Point
	for i, d := range l.cum {
		if d >= start && d <= end {
			out = append(out, l.points[i])
		}
	}
	return out
}
