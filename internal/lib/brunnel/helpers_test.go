package brunnel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpup/brunnels/internal/lib/geo"
	"github.com/dpup/brunnels/internal/lib/route"
)

// Test fixtures use a straight north-south route starting at (38.0, -120.0),
// so distance-along-route and metric offsets are easy to reason about.

const (
	fixtureLat = 38.0
	fixtureLon = -120.0
)

// at returns the geographic point northM meters north and eastM meters east
// of the fixture origin.
func at(northM, eastM float64) geo.Point {
	return geo.Point{
		Latitude:  fixtureLat + northM/111320.0,
		Longitude: fixtureLon + eastM/(111320.0*math.Cos(fixtureLat*math.Pi/180)),
	}
}

// testRoute builds a route heading due north with a vertex every stepM.
func testRoute(t *testing.T, lengthM, stepM float64) *route.Route {
	t.Helper()
	var points []route.Point
	for d := 0.0; d <= lengthM+0.01; d += stepM {
		points = append(points, route.Point{Point: at(d, 0)})
	}
	r, err := route.New(points)
	require.NoError(t, err)
	return r
}

// alongCrossing is a 2-point crossing running parallel to the route from
// startM to endM along it, offset eastM to the side.
func alongCrossing(id string, kind Kind, startM, endM, eastM float64) *Brunnel {
	return &Brunnel{
		ID:     id,
		Kind:   kind,
		Points: []geo.Point{at(startM, eastM), at(endM, eastM)},
	}
}

// perpendicularCrossing is a 2-point crossing at right angles to the route,
// centered on it at atM and extending halfM to each side.
func perpendicularCrossing(id string, kind Kind, atM, halfM float64) *Brunnel {
	return &Brunnel{
		ID:     id,
		Kind:   kind,
		Points: []geo.Point{at(atM, -halfM), at(atM, halfM)},
	}
}

func newTestAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(cfg)
	require.NoError(t, err)
	return a
}

// indexCandidates mirrors the index assignment Analyze performs, for tests
// that drive individual stages directly.
func indexCandidates(bs []*Brunnel) {
	for i, b := range bs {
		b.index = i
	}
}
