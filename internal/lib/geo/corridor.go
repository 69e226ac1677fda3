package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	orbplanar "github.com/paulmach/orb/planar"
)

// Corridor is the region within a fixed metric distance of a line: a point is
// inside when its distance to the line is at most the corridor width. All
// queries operate in the line's local planar frame.
type Corridor struct {
	line  *Line
	width float64
}

// NewCorridor builds a corridor extending width meters on each side of the
// line.
func NewCorridor(line *Line, width float64) (*Corridor, error) {
	if width <= 0 {
		return nil, errors.New("corridor width must be positive")
	}
	return &Corridor{line: line, width: width}, nil
}

// Contains reports whether the point lies inside the corridor.
func (c *Corridor) Contains(p Point) bool {
	return c.planeDistance(c.line.proj.toPlane(p)) <= c.width
}

// IntersectsBoundary reports whether the polyline crosses the corridor's
// boundary, i.e. has parts both inside and outside. Segments are sampled at
// half the corridor width so an exit between two vertices is not missed.
func (c *Corridor) IntersectsBoundary(points []Point) bool {
	if len(points) < 2 {
		return false
	}

	inside, outside := false, false
	classify := func(pt orb.Point) bool {
		if c.planeDistance(pt) <= c.width {
			inside = true
		} else {
			outside = true
		}
		return inside && outside
	}

	prev := c.line.proj.toPlane(points[0])
	if classify(prev) {
		return true
	}
	for _, p := range points[1:] {
		next := c.line.proj.toPlane(p)
		dx, dy := next[0]-prev[0], next[1]-prev[1]
		if length := math.Hypot(dx, dy); length > 0 {
			steps := int(math.Ceil(length / (c.width / 2)))
			for s := 1; s <= steps; s++ {
				t := float64(s) / float64(steps)
				if classify(orb.Point{prev[0] + t*dx, prev[1] + t*dy}) {
					return true
				}
			}
		}
		prev = next
	}
	return false
}

func (c *Corridor) planeDistance(pt orb.Point) float64 {
	return orbplanar.DistanceFrom(c.line.plane, pt)
}
