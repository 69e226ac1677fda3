package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetLon converts a metric east-west offset to degrees of longitude at the
// given latitude.
func offsetLon(meters, lat float64) float64 {
	return meters / (metersPerDegree * math.Cos(lat*math.Pi/180))
}

// offsetLat converts a metric north-south offset to degrees of latitude.
func offsetLat(meters float64) float64 {
	return meters / metersPerDegree
}

// meridianLine builds a north-south test line of the given length starting at
// (38.0, -120.0), with a vertex every stepMeters.
func meridianLine(t *testing.T, lengthMeters, stepMeters float64) *Line {
	t.Helper()
	var points []Point
	for d := 0.0; d <= lengthMeters+0.01; d += stepMeters {
		points = append(points, Point{Latitude: 38.0 + offsetLat(d), Longitude: -120.0})
	}
	line, err := NewLine(points)
	require.NoError(t, err)
	return line
}

func TestDistance(t *testing.T) {
	// Highway 4 reference pair: Angels Camp to Murphys, ~11.0 km apart
	angelsCamp := Point{Latitude: 38.0675, Longitude: -120.5436}
	murphys := Point{Latitude: 38.1391, Longitude: -120.4561}

	distance := Distance(angelsCamp, murphys)
	assert.InDelta(t, 11046, distance, 100, "Distance should be approximately 11.0km")

	assert.Zero(t, Distance(angelsCamp, angelsCamp), "Distance to self should be zero")
}

func TestBearing(t *testing.T) {
	origin := Point{Latitude: 38.0, Longitude: -120.0}

	north := Point{Latitude: 38.01, Longitude: -120.0}
	assert.InDelta(t, 0, Bearing(origin, north), 0.5, "Due north should bear ~0")

	east := Point{Latitude: 38.0, Longitude: -119.99}
	assert.InDelta(t, 90, Bearing(origin, east), 0.5, "Due east should bear ~90")

	south := Point{Latitude: 37.99, Longitude: -120.0}
	assert.InDelta(t, 180, Bearing(origin, south), 0.5, "Due south should bear ~180")

	west := Point{Latitude: 38.0, Longitude: -120.01}
	assert.InDelta(t, 270, Bearing(origin, west), 0.5, "Due west should bear ~270")
}

func TestBearingDifference(t *testing.T) {
	tests := []struct {
		b1, b2, want float64
	}{
		{0, 180, 0},   // exact reversal is aligned
		{10, 190, 0},  // reversal folding with offset
		{0, 90, 90},   // perpendicular
		{350, 10, 20}, // compass wrap-around
		{0, 0, 0},
		{45, 45, 0},
		{90, 270, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, BearingDifference(tt.b1, tt.b2), 1e-9,
			"differenceOf(%v, %v)", tt.b1, tt.b2)
		assert.InDelta(t, tt.want, BearingDifference(tt.b2, tt.b1), 1e-9,
			"difference should be symmetric for (%v, %v)", tt.b1, tt.b2)
	}
}

func TestSegmentBearings(t *testing.T) {
	points := []Point{
		{Latitude: 38.0, Longitude: -120.0},
		{Latitude: 38.001, Longitude: -120.0},
		{Latitude: 38.001, Longitude: -119.999},
	}
	bearings := SegmentBearings(points)
	require.Len(t, bearings, 2)
	assert.InDelta(t, 0, bearings[0], 0.5, "First segment heads north")
	assert.InDelta(t, 90, bearings[1], 0.5, "Second segment heads east")

	assert.Nil(t, SegmentBearings(points[:1]), "Single point has no segments")
}

func TestNewLine_Validation(t *testing.T) {
	_, err := NewLine([]Point{{Latitude: 38.0, Longitude: -120.0}})
	assert.Error(t, err, "One point is not a line")

	coincident := Point{Latitude: 38.0, Longitude: -120.0}
	_, err = NewLine([]Point{coincident, coincident, coincident})
	assert.Error(t, err, "Coincident points make a zero-length line")

	_, err = NewLine([]Point{{Latitude: 200, Longitude: 0}, {Latitude: 0, Longitude: 0}})
	assert.Error(t, err, "Out-of-domain coordinates are rejected")
}

func TestLine_CumulativeDistances(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	cum := line.CumulativeDistances()
	require.Len(t, cum, 3)
	assert.Zero(t, cum[0])
	assert.InDelta(t, 500, cum[1], 2)
	assert.InDelta(t, 1000, cum[2], 4)
	assert.InDelta(t, 1000, line.Length(), 4)
}

func TestLine_Project(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	// A point 20m east of the 250m mark projects onto the line at ~250m.
	probe := Point{
		Latitude:  38.0 + offsetLat(250),
		Longitude: -120.0 + offsetLon(20, 38.0),
	}
	assert.InDelta(t, 250, line.Project(probe), 5)
	assert.InDelta(t, 20, line.DistanceFrom(probe), 2)

	// Points beyond the ends clamp to the endpoints.
	before := Point{Latitude: 38.0 - offsetLat(100), Longitude: -120.0}
	assert.InDelta(t, 0, line.Project(before), 1)
	after := Point{Latitude: 38.0 + offsetLat(1100), Longitude: -120.0}
	assert.InDelta(t, 1000, line.Project(after), 5)
}

func TestLine_VerticesBetween(t *testing.T) {
	line := meridianLine(t, 1000, 100)

	sub := line.VerticesBetween(250, 650)
	require.Len(t, sub, 4, "Vertices at 300, 400, 500, 600 fall inside the window")

	assert.Empty(t, line.VerticesBetween(110, 190), "No vertex between consecutive vertices")
}

func TestCorridor_Containment(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	corridor, err := NewCorridor(line, 50)
	require.NoError(t, err)

	inside := Point{
		Latitude:  38.0 + offsetLat(250),
		Longitude: -120.0 + offsetLon(10, 38.0),
	}
	assert.True(t, corridor.Contains(inside), "Point 10m off the line is inside a 50m corridor")

	outside := Point{
		Latitude:  38.0 + offsetLat(250),
		Longitude: -120.0 + offsetLon(200, 38.0),
	}
	assert.False(t, corridor.Contains(outside), "Point 200m off the line is outside a 50m corridor")
}

func TestCorridor_BoundaryIntersection(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	corridor, err := NewCorridor(line, 50)
	require.NoError(t, err)

	// A perpendicular crossing extending 200m on each side exits the corridor.
	crossing := []Point{
		{Latitude: 38.0 + offsetLat(500), Longitude: -120.0 - offsetLon(200, 38.0)},
		{Latitude: 38.0 + offsetLat(500), Longitude: -120.0 + offsetLon(200, 38.0)},
	}
	assert.True(t, corridor.IntersectsBoundary(crossing), "Perpendicular crossing exits the corridor")

	// A short segment along the centerline stays inside.
	along := []Point{
		{Latitude: 38.0 + offsetLat(200), Longitude: -120.0},
		{Latitude: 38.0 + offsetLat(300), Longitude: -120.0},
	}
	assert.False(t, corridor.IntersectsBoundary(along), "Centerline segment stays inside the corridor")
	assert.True(t, corridor.Contains(along[0]))
}

func TestCorridor_CenterlineSegmentsNeverCrossBoundary(t *testing.T) {
	line := meridianLine(t, 1000, 100)

	corridor, err := NewCorridor(line, 30)
	require.NoError(t, err)

	// Every 100m stretch of the centerline itself must be contained, over the
	// whole route including both ends.
	for start := 0.0; start < 1000; start += 100 {
		segment := []Point{
			{Latitude: 38.0 + offsetLat(start), Longitude: -120.0},
			{Latitude: 38.0 + offsetLat(start + 100), Longitude: -120.0},
		}
		assert.False(t, corridor.IntersectsBoundary(segment),
			"centerline segment %v-%vm must not register a boundary crossing", start, start+100)
		assert.True(t, corridor.Contains(segment[0]),
			"centerline point at %vm must be inside", start)
	}
}

func TestCorridor_PartialExitDetected(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	corridor, err := NewCorridor(line, 50)
	require.NoError(t, err)

	// Both endpoints sit inside the corridor but the straight segment between
	// them swings wide of the line; sampling must catch the excursion.
	exiting := []Point{
		{Latitude: 38.0 + offsetLat(200), Longitude: -120.0 + offsetLon(40, 38.0)},
		{Latitude: 38.0 + offsetLat(800), Longitude: -120.0 - offsetLon(40, 38.0)},
	}
	assert.True(t, corridor.Contains(exiting[0]))
	assert.True(t, corridor.Contains(exiting[1]))
	assert.False(t, corridor.IntersectsBoundary(exiting),
		"a straight chord between inside points of a straight corridor stays inside")

	bulge := []Point{
		{Latitude: 38.0 + offsetLat(200), Longitude: -120.0 + offsetLon(40, 38.0)},
		{Latitude: 38.0 + offsetLat(500), Longitude: -120.0 + offsetLon(120, 38.0)},
		{Latitude: 38.0 + offsetLat(800), Longitude: -120.0 + offsetLon(40, 38.0)},
	}
	assert.True(t, corridor.IntersectsBoundary(bulge),
		"a polyline bulging 120m out of a 50m corridor crosses the boundary")
}

func TestNewCorridor_Validation(t *testing.T) {
	line := meridianLine(t, 1000, 500)

	_, err := NewCorridor(line, 0)
	assert.Error(t, err, "Zero width corridor is rejected")

	_, err = NewCorridor(line, -3)
	assert.Error(t, err, "Negative width corridor is rejected")
}
