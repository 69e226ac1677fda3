package brunnel

import (
	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/lib/geo"
	"github.com/dpup/brunnels/internal/lib/route"
)

// filterAligned rejects candidates whose direction diverges from the route's
// local direction beyond the configured tolerance. This removes features that
// merely cross the corridor, such as an overpass carrying an unrelated road.
//
// A candidate is aligned if any pairing of one of its directed segments with
// one directed segment of the route sub-path covering its span has a folded
// bearing difference within tolerance. Folding treats reversed segments as
// aligned, since a feature may be traced in either direction relative to the
// route. A zero tolerance disables the filter entirely.
func (a *Analyzer) filterAligned(r *route.Route, candidates []*Brunnel) {
	tolerance := a.cfg.ToleranceDegrees
	if tolerance == 0 {
		a.logger.Debug("alignment filter disabled")
		return
	}

	rejected := 0
	for _, b := range candidates {
		if !b.Included() || b.Span == nil {
			continue
		}

		subPath := r.SubPath(b.Span.Start, b.Span.End)
		if len(subPath) < 2 {
			// The span falls between route vertices; the local route
			// direction is indeterminate and the candidate passes.
			continue
		}

		if !anySegmentAligned(b.Points, subPath, tolerance) {
			b.Reason = ExclusionMisaligned
			rejected++
		}
	}

	a.logger.Debug("alignment filter",
		zap.Float64("tolerance_deg", tolerance),
		zap.Int("rejected", rejected))
}

// anySegmentAligned short-circuits on the first crossing/route segment pair
// within tolerance.
func anySegmentAligned(crossing, subPath []geo.Point, tolerance float64) bool {
	routeBearings := geo.SegmentBearings(subPath)
	for i := 0; i < len(crossing)-1; i++ {
		bearing := geo.Bearing(crossing[i], crossing[i+1])
		for _, routeBearing := range routeBearings {
			if geo.BearingDifference(bearing, routeBearing) <= tolerance {
				return true
			}
		}
	}
	return false
}
