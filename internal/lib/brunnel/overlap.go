package brunnel

import (
	"go.uber.org/zap"

	"github.com/dpup/brunnels/internal/lib/route"
)

// resolveOverlaps handles logically distinct structures competing for the
// same stretch of route, such as an old bridge alongside its replacement.
// Representatives with overlapping spans are clustered, and within each
// cluster only the structure closest to the route is kept.
//
// Clustering is greedy single-link in input order: a representative joins the
// first existing group it overlaps any member of, otherwise it starts a new
// group. This is deliberately not a transitive closure; the behavior is
// pinned by tests.
func (a *Analyzer) resolveOverlaps(r *route.Route, candidates []*Brunnel) {
	var reps []*Brunnel
	for _, b := range candidates {
		if b.Included() && b.Span != nil && b.IsRepresentative() {
			reps = append(reps, b)
		}
	}

	var groups [][]*Brunnel
	for _, b := range reps {
		placed := false
		for gi := range groups {
			for _, member := range groups[gi] {
				if b.Span.Overlaps(*member.Span) {
					groups[gi] = append(groups[gi], b)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []*Brunnel{b})
		}
	}

	resolved := 0
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}

		// Keep the member whose own geometry is closest to the route on
		// average; strict comparison retains the earliest input on ties.
		keep := 0
		bestMean := meanDistanceToRoute(r, members[0])
		for i := 1; i < len(members); i++ {
			if mean := meanDistanceToRoute(r, members[i]); mean < bestMean {
				keep = i
				bestMean = mean
			}
		}

		indices := make([]int, len(members))
		for i, m := range members {
			indices[i] = m.index
		}
		group := newGroup(indices)
		group.rep = members[keep].index

		for i, m := range members {
			m.Overlap = group
			if i != keep {
				m.Reason = ExclusionSupersededByOverlap
			}
		}
		resolved++
	}

	a.logger.Debug("overlap resolution",
		zap.Int("representatives", len(reps)),
		zap.Int("contested_groups", resolved))
}

// meanDistanceToRoute averages the geodesic distance from each point of the
// candidate's geometry to its nearest point on the route.
func meanDistanceToRoute(r *route.Route, b *Brunnel) float64 {
	if len(b.Points) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range b.Points {
		total += r.DistanceFrom(p)
	}
	return total / float64(len(b.Points))
}
