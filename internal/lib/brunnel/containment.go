package brunnel

import (
	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/lib/route"
)

// filterContained rejects every candidate whose geometry is not entirely
// inside the buffered route corridor. The predicate is: no crossing between
// the candidate polyline and the corridor boundary, and the first candidate
// point inside the corridor. Candidates with fewer than 2 points
// are rejected outright. Geometric anomalies are absorbed as rejections,
// never surfaced as errors.
func (a *Analyzer) filterContained(r *route.Route, candidates []*Brunnel) {
	corridor, err := r.Corridor(a.cfg.BufferMeters)
	if err != nil {
		// Nothing can be classified as contained without a corridor.
		a.logger.Warn("corridor construction failed, rejecting all candidates", zap.Error(err))
		for _, b := range candidates {
			b.Reason = ExclusionOutsideCorridor
		}
		return
	}

	rejected := 0
	for _, b := range candidates {
		if len(b.Points) < 2 {
			b.Reason = ExclusionOutsideCorridor
			rejected++
			continue
		}
		if corridor.IntersectsBoundary(b.Points) {
			// The feature is partially outside even if some points are in.
			b.Reason = ExclusionOutsideCorridor
			rejected++
			continue
		}
		if !corridor.Contains(b.Points[0]) {
			b.Reason = ExclusionOutsideCorridor
			rejected++
		}
	}

	a.logger.Debug("containment filter",
		zap.Float64("buffer_m", a.cfg.BufferMeters),
		zap.Int("rejected", rejected),
		zap.Int("remaining", len(candidates)-rejected))
}
