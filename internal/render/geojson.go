// Package render turns analysis results into presentation artifacts: a
// GeoJSON document, a KML document, and a plain-text listing.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dpup/brunnels/internal/lib/brunnel"
	"github.com/dpup/brunnels/internal/lib/route"
)

// GeoJSON renders the route and every candidate, included and excluded, as a
// FeatureCollection. Exclusion reasons, spans and group memberships are
// carried as feature properties so downstream map UIs can style them apart.
func GeoJSON(r *route.Route, res *brunnel.Result) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	routeLine := make(orb.LineString, len(r.Points()))
	for i, p := range r.Points() {
		routeLine[i] = orb.Point{p.Longitude, p.Latitude}
	}
	routeFeature := geojson.NewFeature(routeLine)
	routeFeature.Properties["role"] = "route"
	routeFeature.Properties["length_m"] = r.Length()
	fc.Append(routeFeature)

	for _, b := range res.Brunnels {
		fc.Append(brunnelFeature(res, b))
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	return data, nil
}

func brunnelFeature(res *brunnel.Result, b *brunnel.Brunnel) *geojson.Feature {
	var geometry orb.Geometry
	if len(b.Points) == 1 {
		geometry = orb.Point{b.Points[0].Longitude, b.Points[0].Latitude}
	} else {
		line := make(orb.LineString, len(b.Points))
		for i, p := range b.Points {
			line[i] = orb.Point{p.Longitude, p.Latitude}
		}
		geometry = line
	}

	f := geojson.NewFeature(geometry)
	f.Properties["role"] = "crossing"
	f.Properties["id"] = b.ID
	f.Properties["kind"] = b.Kind.String()
	f.Properties["included"] = b.Included()
	f.Properties["exclusion_reason"] = b.Reason.String()
	f.Properties["representative"] = b.IsRepresentative()
	if b.Name != "" {
		f.Properties["name"] = b.Name
	}
	if b.Span != nil {
		f.Properties["span_start_m"] = b.Span.Start
		f.Properties["span_end_m"] = b.Span.End
	}
	if b.Compound != nil {
		f.Properties["compound_group"] = memberIDs(res, b.Compound)
	}
	if b.Overlap != nil {
		f.Properties["overlap_group"] = memberIDs(res, b.Overlap)
	}
	return f
}

func memberIDs(res *brunnel.Result, g *brunnel.Group) []string {
	ids := make([]string, 0, g.Size())
	for _, idx := range g.Members() {
		ids = append(ids, res.Brunnels[idx].ID)
	}
	return ids
}
