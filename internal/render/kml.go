package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml/v2"

	"github.com/dpup/brunnels/internal/lib/brunnel"
	"github.com/dpup/brunnels/internal/lib/geo"
	"github.com/dpup/brunnels/internal/lib/route"
)

var (
	routeColor    = color.RGBA{R: 0x1e, G: 0x6f, B: 0xd9, A: 0xff}
	bridgeColor   = color.RGBA{R: 0x2e, G: 0xa0, B: 0x43, A: 0xff}
	tunnelColor   = color.RGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff}
	excludedColor = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xb0}
)

// KML renders the route and all candidates as a KML document suitable for
// Google Earth. Included crossings are styled by kind, excluded ones are
// greyed out with the exclusion reason in the description.
func KML(w io.Writer, r *route.Route, res *brunnel.Result) error {
	children := []kml.Element{
		kml.Name("Route crossings"),
		lineStyle("route", routeColor, 4),
		lineStyle("bridge", bridgeColor, 6),
		lineStyle("tunnel", tunnelColor, 6),
		lineStyle("excluded", excludedColor, 3),
		kml.Placemark(
			kml.Name("Route"),
			kml.StyleURL("#route"),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(routeCoordinates(r)...),
			),
		),
	}

	for _, b := range res.Brunnels {
		children = append(children, placemark(b))
	}

	doc := kml.KML(kml.Document(children...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func lineStyle(id string, c color.Color, width float64) kml.Element {
	return kml.SharedStyle(id, kml.LineStyle(kml.Color(c), kml.Width(width)))
}

func routeCoordinates(r *route.Route) []kml.Coordinate {
	coords := make([]kml.Coordinate, len(r.Points()))
	for i, p := range r.Points() {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}
	return coords
}

func placemark(b *brunnel.Brunnel) kml.Element {
	style := "#excluded"
	if b.Included() {
		if b.Kind == brunnel.KindTunnel {
			style = "#tunnel"
		} else {
			style = "#bridge"
		}
	}

	var geometry kml.Element
	if len(b.Points) == 1 {
		geometry = kml.Point(kml.Coordinates(coordinate(b.Points[0])))
	} else {
		coords := make([]kml.Coordinate, len(b.Points))
		for i, p := range b.Points {
			coords[i] = coordinate(p)
		}
		geometry = kml.LineString(kml.Tessellate(true), kml.Coordinates(coords...))
	}

	return kml.Placemark(
		kml.Name(displayName(b)),
		kml.Description(description(b)),
		kml.StyleURL(style),
		geometry,
	)
}

func displayName(b *brunnel.Brunnel) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("%s %s", b.Kind, b.ID)
}

func description(b *brunnel.Brunnel) string {
	if !b.Included() {
		return fmt.Sprintf("excluded: %s", b.Reason)
	}
	if b.Span != nil {
		return fmt.Sprintf("route %.0fm to %.0fm", b.Span.Start, b.Span.End)
	}
	return "included"
}

func coordinate(p geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}
