package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/brunnels/internal/lib/geo"
)

func pt(lat, lon float64) Point {
	return Point{Point: geo.Point{Latitude: lat, Longitude: lon}}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidRoute, "Empty route is invalid")

	_, err = New([]Point{pt(38.0, -120.0)})
	assert.ErrorIs(t, err, ErrInvalidRoute, "Single point route is invalid")

	_, err = New([]Point{pt(38.0, -120.0), pt(38.0, -120.0), pt(38.0, -120.0)})
	assert.ErrorIs(t, err, ErrInvalidRoute, "Zero-length route is invalid")
}

func TestNew_DistancesAndRegion(t *testing.T) {
	r, err := New([]Point{
		pt(38.0675, -120.5436), // Angels Camp
		pt(38.1391, -120.4561), // Murphys
		pt(38.2458, -120.3486), // Arnold
	})
	require.NoError(t, err)

	cum := r.CumulativeDistances()
	require.Len(t, cum, 3)
	assert.Zero(t, cum[0])
	assert.InDelta(t, 11046, cum[1], 100, "Angels Camp to Murphys is ~11km")
	assert.Greater(t, cum[2], cum[1], "Cumulative distances are non-decreasing")
	assert.Equal(t, cum[2], r.Length())

	region := r.Region()
	assert.Equal(t, 38.0675, region.MinLat)
	assert.Equal(t, 38.2458, region.MaxLat)
	assert.Equal(t, -120.5436, region.MinLon)
	assert.Equal(t, -120.3486, region.MaxLon)
}

func TestRegion_Expand(t *testing.T) {
	region := Region{MinLat: 38.0, MinLon: -120.1, MaxLat: 38.1, MaxLon: -120.0}
	expanded := region.Expand(1000)

	assert.Less(t, expanded.MinLat, region.MinLat)
	assert.Less(t, expanded.MinLon, region.MinLon)
	assert.Greater(t, expanded.MaxLat, region.MaxLat)
	assert.Greater(t, expanded.MaxLon, region.MaxLon)
	assert.InDelta(t, 0.009, expanded.MaxLat-region.MaxLat, 0.001, "1km is ~0.009 degrees of latitude")
}

func TestRoute_SubPath(t *testing.T) {
	// Vertices roughly every 500m heading north.
	r, err := New([]Point{
		pt(38.0000, -120.0),
		pt(38.0045, -120.0),
		pt(38.0090, -120.0),
		pt(38.0135, -120.0),
	})
	require.NoError(t, err)

	sub := r.SubPath(250, 1250)
	assert.Len(t, sub, 2, "Vertices at ~500m and ~1000m fall in the window")

	assert.Empty(t, r.SubPath(100, 200), "Window between vertices yields no sub-path")
}

func TestParseGPX(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Ebbetts Pass</name>
    <trkseg>
      <trkpt lat="38.0675" lon="-120.5436"><ele>420.5</ele></trkpt>
      <trkpt lat="38.1391" lon="-120.4561"><ele>655.0</ele></trkpt>
      <trkpt lat="38.2458" lon="-120.3486"></trkpt>
    </trkseg>
  </trk>
</gpx>`)

	points, err := ParseGPX(data)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 38.0675, points[0].Latitude)
	assert.Equal(t, -120.5436, points[0].Longitude)
	require.NotNil(t, points[0].Elevation)
	assert.Equal(t, 420.5, *points[0].Elevation)
	assert.Nil(t, points[2].Elevation, "Missing elevation stays nil")
}

func TestParseGPX_RouteFallback(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <rtept lat="38.0" lon="-120.0"></rtept>
    <rtept lat="38.1" lon="-120.1"></rtept>
  </rte>
</gpx>`)

	points, err := ParseGPX(data)
	require.NoError(t, err)
	assert.Len(t, points, 2, "Route points are used when there are no tracks")
}

func TestParseGPX_Empty(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`)

	_, err := ParseGPX(data)
	assert.Error(t, err, "GPX without points is rejected")
}

func TestParsePolyline(t *testing.T) {
	// Canonical example from the encoded polyline format docs.
	points, err := ParsePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-5)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-5)
	assert.InDelta(t, -126.453, points[2].Longitude, 1e-5)

	_, err = ParsePolyline("")
	assert.Error(t, err, "Empty polyline is rejected")
}
