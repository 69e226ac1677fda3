package brunnel

import (
	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/lib/route"
)

// projectSpans computes the route interval each contained candidate projects
// onto: every candidate point is projected to its nearest point on the route
// and the span is the [min, max] of the resulting distances. Candidates whose
// span cannot be computed keep a nil span, which keeps them out of all later
// stages.
func (a *Analyzer) projectSpans(r *route.Route, candidates []*Brunnel) {
	projected := 0
	for _, b := range candidates {
		if !b.Included() || len(b.Points) == 0 {
			continue
		}

		first := r.Project(b.Points[0])
		span := Span{Start: first, End: first}
		for _, p := range b.Points[1:] {
			d := r.Project(p)
			if d < span.Start {
				span.Start = d
			}
			if d > span.End {
				span.End = d
			}
		}
		b.Span = &span
		projected++
	}

	a.logger.Debug("span projection", zap.Int("projected", projected))
}
