package route

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/dpup/brunnels/internal/lib/geo"
)

// ParsePolyline decodes a Google encoded polyline string into route points.
// Encoded polylines carry no elevation.
func ParsePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Point: geo.Point{Latitude: coord[0], Longitude: coord[1]},
		}
		if !points[i].Valid() {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}
