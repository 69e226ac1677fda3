package route

import (
	"errors"
	"fmt"
	"os"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/dpup/brunnels/internal/lib/geo"
)

// ParseGPX extracts the route point sequence from a GPX document. Track
// points are preferred; route points are used when the document has no
// tracks. Elevation is carried through when present.
func ParseGPX(data []byte) ([]Point, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	var points []Point
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				points = append(points, fromGPXPoint(p))
			}
		}
	}
	if len(points) == 0 {
		for _, rte := range doc.Routes {
			for _, p := range rte.Points {
				points = append(points, fromGPXPoint(p))
			}
		}
	}
	if len(points) == 0 {
		return nil, errors.New("GPX document contains no track or route points")
	}

	return points, nil
}

// ParseGPXFile reads and parses a GPX file from disk.
func ParseGPXFile(path string) ([]Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX file: %w", err)
	}
	return ParseGPX(data)
}

func fromGPXPoint(p gpx.GPXPoint) Point {
	point := Point{
		Point: geo.Point{Latitude: p.Latitude, Longitude: p.Longitude},
	}
	if p.Elevation.NotNull() {
		elevation := p.Elevation.Value()
		point.Elevation = &elevation
	}
	return point
}
